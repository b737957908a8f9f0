package extract

import (
	"strings"
	"unicode"
)

// DefaultEntityName is used when no entity can be detected in a request.
const DefaultEntityName = "GeneratedComponent"

// entityTable maps request keywords to canonical entity names. Order
// matters: the first keyword found in the request wins, so concrete UI
// nouns come before broader domain nouns ("login button" resolves to
// Button, not Login).
var entityTable = []struct {
	keyword string
	name    string
}{
	{"button", "Button"},
	{"modal", "Modal"},
	{"dropdown", "Dropdown"},
	{"tooltip", "Tooltip"},
	{"accordion", "Accordion"},
	{"carousel", "Carousel"},
	{"slider", "Slider"},
	{"toggle", "Toggle"},
	{"spinner", "Spinner"},
	{"badge", "Badge"},
	{"avatar", "Avatar"},
	{"form", "Form"},
	{"table", "Table"},
	{"card", "Card"},
	{"navbar", "Navbar"},
	{"sidebar", "Sidebar"},
	{"header", "Header"},
	{"footer", "Footer"},
	{"chart", "Chart"},
	{"calendar", "Calendar"},
	{"gallery", "Gallery"},
	{"dashboard", "Dashboard"},
	{"login", "Login"},
	{"signup", "Signup"},
	{"checkout", "Checkout"},
	{"profile", "Profile"},
	{"search", "Search"},
	{"chat", "Chat"},
	{"cart", "Cart"},
	{"product", "Product"},
	{"invoice", "Invoice"},
	{"blog", "Blog"},
	{"todo", "Todo"},
}

// DetectEntity resolves the dominant entity of a request. The keyword
// table is consulted first; failing that, the first capitalized word of
// the request is used; failing that, DefaultEntityName.
func DetectEntity(requestText string) string {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(requestText), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = true
	}

	for _, entry := range entityTable {
		if words[entry.keyword] {
			return entry.name
		}
	}

	for _, w := range strings.Fields(requestText) {
		w = strings.Trim(w, ".,:;!?\"'()[]{}")
		if len(w) > 1 && unicode.IsUpper(rune(w[0])) && isIdentifier(w) {
			return w
		}
	}

	return DefaultEntityName
}

func isIdentifier(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
