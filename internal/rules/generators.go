package rules

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"paramdoc/internal/model"
)

// Faker is the random source example values are drawn from.
// *gofakeit.Faker satisfies it.
type Faker interface {
	Word() string
	Sentence(wordCount int) string
	Number(min, max int) int
	Float64Range(min, max float64) float64
	Bool() bool
	Email() string
	URL() string
	IPv4Address() string
	UUID() string
	DateRange(start, end time.Time) time.Time
	Regex(pattern string) string
	LetterN(n uint) string
	TimeZoneRegion() string
	Name() string
	FirstName() string
	LastName() string
	Username() string
	Password(lower, upper, numeric, special, space bool, num int) string
	Phone() string
	City() string
	Country() string
	Street() string
	Zip() string
	HexColor() string
	Lexify(str string) string
	Numerify(str string) string
	RandomString(a []string) string
}

// NewFaker returns a faker seeded with seed. A zero seed draws a random seed,
// so repeated runs differ.
func NewFaker(seed uint64) *gofakeit.Faker {
	return gofakeit.New(seed)
}

// DateLayout is the layout of generated date examples.
const DateLayout = "2006-01-02T15:04:05"

// Generators produces example values. Now anchors every generated date so
// that a seeded run is reproducible.
type Generators struct {
	Faker Faker
	Now   time.Time
}

// NewGenerators creates generators over f. A zero now means the current day.
func NewGenerators(f Faker, now time.Time) *Generators {
	if now.IsZero() {
		now = time.Now().UTC().Truncate(24 * time.Hour)
	}
	return &Generators{Faker: f, Now: now}
}

type stringFactory func(f Faker) string

// realistic string values by field name; keys are compared without "_" or "-"
var nameHints = map[string]stringFactory{
	"email":       func(f Faker) string { return f.Email() },
	"mail":        func(f Faker) string { return f.Email() },
	"password":    func(f Faker) string { return f.Password(true, true, true, false, false, 12) },
	"pwd":         func(f Faker) string { return f.Password(true, true, true, false, false, 12) },
	"url":         func(f Faker) string { return f.URL() },
	"link":        func(f Faker) string { return f.URL() },
	"website":     func(f Faker) string { return f.URL() },
	"uuid":        func(f Faker) string { return f.UUID() },
	"name":        func(f Faker) string { return f.Name() },
	"fullname":    func(f Faker) string { return f.Name() },
	"firstname":   func(f Faker) string { return f.FirstName() },
	"lastname":    func(f Faker) string { return f.LastName() },
	"username":    func(f Faker) string { return f.Username() },
	"phone":       func(f Faker) string { return f.Phone() },
	"phonenumber": func(f Faker) string { return f.Phone() },
	"city":        func(f Faker) string { return f.City() },
	"country":     func(f Faker) string { return f.Country() },
	"address":     func(f Faker) string { return f.Street() },
	"street":      func(f Faker) string { return f.Street() },
	"zip":         func(f Faker) string { return f.Zip() },
	"zipcode":     func(f Faker) string { return f.Zip() },
	"postcode":    func(f Faker) string { return f.Zip() },
	"color":       func(f Faker) string { return f.HexColor() },
	"colour":      func(f Faker) string { return f.HexColor() },
	"description": func(f Faker) string { return f.Sentence(8) },
	"timezone":    func(f Faker) string { return f.TimeZoneRegion() },
	"ip":          func(f Faker) string { return f.IPv4Address() },
}

func hintFor(name string) stringFactory {
	leaf := name
	if i := strings.LastIndexAny(leaf, ".]"); i >= 0 {
		leaf = leaf[i+1:]
	}
	leaf = strings.ToLower(leaf)
	if hint, ok := nameHints[strings.NewReplacer("_", "", "-", "").Replace(leaf)]; ok {
		return hint
	}
	// "user_email", "billing-city"
	if i := strings.LastIndexAny(leaf, "_-"); i >= 0 {
		return nameHints[leaf[i+1:]]
	}
	return nil
}

// String returns a string example, realistic when the field name is recognized.
func (g *Generators) String(name string) string {
	if hint := hintFor(name); hint != nil {
		return hint(g.Faker)
	}
	return g.Faker.Word()
}

// Integer returns a small positive integer.
func (g *Generators) Integer() int {
	return g.Faker.Number(1, 100)
}

// Number returns a positive number with two decimals.
func (g *Generators) Number() float64 {
	return round2(g.Faker.Float64Range(1, 100))
}

// File returns the path of an example upload. The file is not created.
func (g *Generators) File(ext string) string {
	return filepath.Join(os.TempDir(), "paramdoc-"+g.Faker.Lexify("????????")+ext)
}

// Date returns Now in DateLayout.
func (g *Generators) Date() string {
	return g.Now.Format(DateLayout)
}

// JSON returns a small JSON document as a string.
func (g *Generators) JSON() string {
	data, _ := json.Marshal(map[string]string{g.Faker.Word(): g.Faker.Word()})
	return string(data)
}

// Dummy returns a generic example for a parameter of type typ.
// Object types yield empty containers; scalar arrays yield one element.
func (g *Generators) Dummy(typ, name string) any {
	if model.IsObjectType(typ) {
		if model.IsArrayType(typ) {
			return []any{}
		}
		return model.NewObject()
	}
	if model.IsArrayType(typ) {
		return []any{g.Dummy(strings.TrimSuffix(typ, "[]"), name)}
	}

	switch typ {
	case model.TypeInteger:
		return g.Integer()
	case model.TypeNumber:
		return g.Number()
	case model.TypeBoolean:
		return g.Faker.Bool()
	case model.TypeFile:
		return g.File(".txt")
	case model.TypeArray:
		return []any{g.Faker.Word()}
	default:
		return g.String(name)
	}
}

// Bounded returns a generator of values of type typ whose size lies within
// [lo, hi]: the value itself for numbers, the length for strings and
// the item count for arrays. It returns nil when typ has no notion of size.
func (g *Generators) Bounded(typ, name string, lo, hi float64) func() any {
	if lo > hi {
		lo = hi
	}

	if model.IsArrayType(typ) || typ == model.TypeArray {
		lo, hi = sizeBounds(lo, hi)
		item := model.TypeString
		if typ != model.TypeArray {
			item = strings.TrimSuffix(typ, "[]")
		}
		return func() any {
			n := g.count(lo, hi)
			out := make([]any, 0, n)
			for i := 0; i < n; i++ {
				out = append(out, g.Dummy(item, name))
			}
			return out
		}
	}

	switch typ {
	case model.TypeInteger:
		return func() any { return g.Faker.Number(int(math.Ceil(lo)), int(math.Floor(hi))) }
	case model.TypeNumber:
		return func() any { return round2(g.Faker.Float64Range(lo, hi)) }
	case model.TypeFile:
		return func() any { return g.File(".txt") }
	case model.TypeString:
		lo, hi = sizeBounds(lo, hi)
		return func() any {
			if hint := hintFor(name); hint != nil {
				if v := hint(g.Faker); float64(len(v)) >= lo && float64(len(v)) <= hi {
					return v
				}
			}
			return g.Faker.LetterN(uint(g.count(lo, hi)))
		}
	}
	return nil
}

// MaxExampleSize caps the length of generated strings and arrays. Larger
// size rules ("min:1000000") get examples of this size instead.
const MaxExampleSize = 100

func sizeBounds(lo, hi float64) (float64, float64) {
	return math.Min(lo, MaxExampleSize), math.Min(hi, MaxExampleSize)
}

// count picks a size in [lo, hi], preferring at least one item.
func (g *Generators) count(lo, hi float64) int {
	low, high := int(math.Ceil(lo)), int(math.Floor(hi))
	if low < 0 {
		low = 0
	}
	if high < low {
		high = low
	}
	if low == 0 && high >= 1 {
		low = 1
	}
	return g.Faker.Number(low, high)
}

// DateBetween returns a date in [start, end] in DateLayout.
func (g *Generators) DateBetween(start, end time.Time) string {
	return g.Faker.DateRange(start, end).Format(DateLayout)
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// relative date words accepted as rule arguments
var relativeDays = map[string]int{
	"today":     0,
	"now":       0,
	"tomorrow":  1,
	"yesterday": -1,
}

var dateLayouts = []string{
	time.RFC3339,
	DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"January 2 2006",
	"January 2, 2006",
	"2 January 2006",
}

// ParseDate interprets a date rule argument relative to Now.
func (g *Generators) ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if days, ok := relativeDays[strings.ToLower(s)]; ok {
		return g.Now.AddDate(0, 0, days), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PHP date format characters and their Go layouts
var phpLayouts = map[byte]string{
	'd': "02",
	'D': "Mon",
	'j': "2",
	'l': "Monday",
	'F': "January",
	'm': "01",
	'M': "Jan",
	'n': "1",
	'Y': "2006",
	'y': "06",
	'a': "pm",
	'A': "PM",
	'g': "3",
	'G': "15",
	'h': "03",
	'H': "15",
	'i': "04",
	's': "05",
	'v': "000",
	'u': "000000",
	'e': "MST",
	'T': "MST",
	'O': "-0700",
	'P': "-07:00",
	'p': "Z07:00",
	'c': "2006-01-02T15:04:05-07:00",
	'r': time.RFC1123Z,
}

// FormatPHPDate formats t with a PHP date() format string such as "Y-m-d H:i".
// Each format character is rendered on its own so literal characters never
// collide with Go layout tokens.
func FormatPHPDate(t time.Time, format string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case c == '\\' && i+1 < len(format):
			i++
			b.WriteByte(format[i])
		case c == 'U':
			b.WriteString(strconv.FormatInt(t.Unix(), 10))
		case c == 'S':
			b.WriteString(ordinalSuffix(t.Day()))
		default:
			if layout, ok := phpLayouts[c]; ok {
				b.WriteString(t.Format(layout))
			} else {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}
