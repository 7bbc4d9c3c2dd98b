package preface

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// localeData holds the pieces of the date contract that vary per locale:
// abbreviated month names and the edit-note sentence, which takes the
// formatted date and the HH:mm time as its two arguments.
type localeData struct {
	months [12]string
	edited string
}

var formatterLocales = []language.Tag{
	language.English,
	language.French,
	language.German,
	language.Spanish,
	language.BrazilianPortuguese,
}

var localeTable = map[language.Tag]localeData{
	language.English: {
		months: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		edited: "* edited on %s, at %s",
	},
	language.French: {
		months: [12]string{"janv", "févr", "mars", "avr", "mai", "juin", "juil", "août", "sept", "oct", "nov", "déc"},
		edited: "* édité le %s, à %s",
	},
	language.German: {
		months: [12]string{"Jan", "Feb", "Mär", "Apr", "Mai", "Jun", "Jul", "Aug", "Sep", "Okt", "Nov", "Dez"},
		edited: "* bearbeitet am %s, um %s",
	},
	language.Spanish: {
		months: [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"},
		edited: "* editado el %s, a las %s",
	},
	language.BrazilianPortuguese: {
		months: [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"},
		edited: "* editado em %s, às %s",
	},
}

var localeMatcher = language.NewMatcher(formatterLocales)

// DateFormatter renders user-visible publication dates as "dd MMM yyyy" in
// the site's configured locale. Unknown locales fall back to English via
// the language matcher.
type DateFormatter struct {
	data localeData
}

// NewDateFormatter creates a formatter for the given BCP 47 locale tag.
func NewDateFormatter(locale string) *DateFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	_, idx, _ := localeMatcher.Match(tag)
	return &DateFormatter{data: localeTable[formatterLocales[idx]]}
}

// Published formats a publication date, e.g. "05 Mar 2021".
func (f *DateFormatter) Published(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), f.data.months[t.Month()-1], t.Year())
}

// Edited formats the edit note shown under an article, e.g.
// "* edited on 05 Mar 2021, at 14:30".
func (f *DateFormatter) Edited(t time.Time) string {
	return fmt.Sprintf(f.data.edited, f.Published(t), fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
}
