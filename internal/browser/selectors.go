package browser

import (
	"fmt"
	"strconv"
	"strings"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/pkg/apperr"

	"github.com/tebeka/selenium"
)

// playwrightSelector translates a locator into playwright's selector engine syntax.
func playwrightSelector(l entity.Locator) (string, error) {
	switch l.By {
	case entity.ByID:
		return fmt.Sprintf("css=[id=%s]", strconv.Quote(l.Value)), nil
	case entity.ByCSS:
		return "css=" + l.Value, nil
	case entity.ByXPath:
		return "xpath=" + l.Value, nil
	case entity.ByClassName:
		return "css=." + l.Value, nil
	case entity.ByTagName:
		return "css=" + l.Value, nil
	case entity.ByPartialLinkText:
		return fmt.Sprintf("css=a:has-text(%s)", strconv.Quote(l.Value)), nil
	default:
		return "", unsupportedLocator(l)
	}
}

func seleniumBy(l entity.Locator) (by, value string, err error) {
	switch l.By {
	case entity.ByID:
		return selenium.ByID, l.Value, nil
	case entity.ByCSS:
		return selenium.ByCSSSelector, l.Value, nil
	case entity.ByXPath:
		return selenium.ByXPATH, l.Value, nil
	case entity.ByClassName:
		// W3C drivers dropped the class name strategy.
		return selenium.ByCSSSelector, "." + l.Value, nil
	case entity.ByTagName:
		return selenium.ByTagName, l.Value, nil
	case entity.ByPartialLinkText:
		return selenium.ByPartialLinkText, l.Value, nil
	default:
		return "", "", unsupportedLocator(l)
	}
}

func unsupportedLocator(l entity.Locator) error {
	return apperr.Wrap("selector", apperr.CodeUnsupported, fmt.Errorf("unsupported locator strategy %q", l.By), map[string]any{
		apperr.MetaSelector: l.String(),
	})
}

// splitKeys cuts text at WebDriver key codes so the playwright backend can type plain
// runs and press the named keys in order.
func splitKeys(text string) []keyChunk {
	var (
		chunks []keyChunk
		plain  strings.Builder
	)

	flush := func() {
		if plain.Len() > 0 {
			chunks = append(chunks, keyChunk{text: plain.String()})
			plain.Reset()
		}
	}

	for _, r := range text {
		if name, ok := namedKeys[r]; ok {
			flush()
			chunks = append(chunks, keyChunk{key: name})

			continue
		}

		plain.WriteRune(r)
	}

	flush()

	return chunks
}

type keyChunk struct {
	text string
	key  string
}

// Keys are the WebDriver code points from entity.Key*.
var namedKeys = map[rune]string{
	'\ue003': "Backspace",
	'\ue004': "Tab",
	'\ue006': "Enter",
	'\ue007': "Enter",
	'\ue00c': "Escape",
	'\ue013': "ArrowUp",
	'\ue015': "ArrowDown",
}
