package browser

import (
	"fmt"
	"strings"
)

// readPropertyScript mirrors WebDriver's getAttribute: the live DOM property wins over
// the markup attribute, so href comes back absolute.
const readPropertyScript = `(el, name) => {
	const prop = el[name];
	if (prop !== undefined && prop !== null && typeof prop !== 'object' && typeof prop !== 'function') {
		return String(prop);
	}
	const attr = el.getAttribute(name);
	return attr === null ? '' : attr;
}`

const outerHTMLScript = `el => el.outerHTML`

const submitScript = `el => {
	const form = el.form || el.closest('form');
	if (!form) {
		return false;
	}
	if (typeof form.requestSubmit === 'function') {
		form.requestSubmit();
	} else {
		form.submit();
	}
	return true;
}`

const scrollIntoViewScript = `el => el.scrollIntoView({behavior: 'instant', block: 'center'})`

// webdriverCall wraps one of the arrow functions above as a WebDriver script body,
// which receives its parameters through arguments.
func webdriverCall(fn string, argc int) string {
	args := make([]string, argc)
	for i := range args {
		args[i] = fmt.Sprintf("arguments[%d]", i)
	}

	return fmt.Sprintf("return (%s)(%s);", fn, strings.Join(args, ", "))
}

// scriptString turns a script result into text; null and undefined read as "".
func scriptString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
