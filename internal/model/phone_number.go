package model

import (
	"errors"
	"fmt"
	"strings"
)

// PhoneNumber errors.
var (
	// ErrEmptyPhoneNumber is returned when the input contains no digits.
	ErrEmptyPhoneNumber = errors.New("phone number cannot be empty")
	// ErrPhoneNumberTooShort is returned for inputs with fewer than 7 digits.
	ErrPhoneNumberTooShort = errors.New("phone number too short")
	// ErrPhoneNumberTooLong is returned for inputs with more than 15 digits.
	ErrPhoneNumberTooLong = errors.New("phone number too long")
	// ErrUnknownCountryCode is returned when no country code matches the input.
	ErrUnknownCountryCode = errors.New("unable to determine country code")
)

// E.164 limits the international number to 15 digits. Anything below 7
// digits is not a dialable subscriber number anywhere.
const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// countryCodes maps calling codes to country names.
// Restricted to codes the query builder and associated-phone matcher
// actually benefit from; unknown codes fail validation rather than
// silently producing an unusable session.
var countryCodes = map[string]string{
	"1":   "United States/Canada",
	"7":   "Russia/Kazakhstan",
	"20":  "Egypt",
	"27":  "South Africa",
	"31":  "Netherlands",
	"32":  "Belgium",
	"33":  "France",
	"34":  "Spain",
	"39":  "Italy",
	"41":  "Switzerland",
	"44":  "United Kingdom",
	"45":  "Denmark",
	"46":  "Sweden",
	"47":  "Norway",
	"48":  "Poland",
	"49":  "Germany",
	"52":  "Mexico",
	"54":  "Argentina",
	"55":  "Brazil",
	"56":  "Chile",
	"57":  "Colombia",
	"60":  "Malaysia",
	"61":  "Australia",
	"62":  "Indonesia",
	"63":  "Philippines",
	"64":  "New Zealand",
	"65":  "Singapore",
	"66":  "Thailand",
	"81":  "Japan",
	"82":  "South Korea",
	"84":  "Vietnam",
	"86":  "China",
	"90":  "Turkey",
	"91":  "India",
	"92":  "Pakistan",
	"230": "Mauritius",
	"234": "Nigeria",
	"254": "Kenya",
	"351": "Portugal",
	"353": "Ireland",
	"358": "Finland",
	"380": "Ukraine",
	"420": "Czech Republic",
	"852": "Hong Kong",
	"886": "Taiwan",
	"966": "Saudi Arabia",
	"971": "United Arab Emirates",
	"972": "Israel",
}

// usAreaCodes maps NANP area codes to their state or region.
// This is lookup data for the session's "location" hint and is not a
// correctness requirement; unknown area codes simply yield no location.
var usAreaCodes = map[string]string{
	"201": "New Jersey", "202": "Washington DC", "203": "Connecticut",
	"205": "Alabama", "206": "Washington", "207": "Maine",
	"208": "Idaho", "209": "California", "210": "Texas",
	"212": "New York", "213": "California", "214": "Texas",
	"215": "Pennsylvania", "216": "Ohio", "217": "Illinois",
	"225": "Louisiana", "228": "Mississippi", "229": "Georgia",
	"231": "Michigan", "239": "Florida", "240": "Maryland",
	"248": "Michigan", "252": "North Carolina", "253": "Washington",
	"254": "Texas", "256": "Alabama", "260": "Indiana",
	"262": "Wisconsin", "267": "Pennsylvania", "269": "Michigan",
	"301": "Maryland", "302": "Delaware", "303": "Colorado",
	"304": "West Virginia", "305": "Florida", "307": "Wyoming",
	"308": "Nebraska", "309": "Illinois", "310": "California",
	"312": "Illinois", "313": "Michigan", "314": "Missouri",
	"315": "New York", "316": "Kansas", "317": "Indiana",
	"318": "Louisiana", "319": "Iowa", "320": "Minnesota",
	"321": "Florida", "323": "California", "330": "Ohio",
	"334": "Alabama", "336": "North Carolina", "337": "Louisiana",
	"347": "New York", "351": "Massachusetts", "352": "Florida",
	"360": "Washington", "361": "Texas", "386": "Florida",
	"401": "Rhode Island", "402": "Nebraska", "404": "Georgia",
	"405": "Oklahoma", "406": "Montana", "407": "Florida",
	"408": "California", "409": "Texas", "410": "Maryland",
	"412": "Pennsylvania", "413": "Massachusetts", "414": "Wisconsin",
	"415": "California", "417": "Missouri", "419": "Ohio",
	"423": "Tennessee", "424": "California", "425": "Washington",
	"434": "Virginia", "435": "Utah", "440": "Ohio",
	"443": "Maryland", "469": "Texas", "470": "Georgia",
	"478": "Georgia", "479": "Arkansas", "480": "Arizona",
	"484": "Pennsylvania", "501": "Arkansas", "502": "Kentucky",
	"503": "Oregon", "504": "Louisiana", "505": "New Mexico",
	"507": "Minnesota", "508": "Massachusetts", "509": "Washington",
	"510": "California", "512": "Texas", "513": "Ohio",
	"515": "Iowa", "516": "New York", "517": "Michigan",
	"518": "New York", "520": "Arizona", "530": "California",
	"540": "Virginia", "541": "Oregon", "551": "New Jersey",
	"555": "Reserved (fictional)", "559": "California", "561": "Florida",
	"562": "California", "563": "Iowa", "570": "Pennsylvania",
	"571": "Virginia", "573": "Missouri", "574": "Indiana",
	"575": "New Mexico", "580": "Oklahoma", "585": "New York",
	"586": "Michigan", "601": "Mississippi", "602": "Arizona",
	"603": "New Hampshire", "605": "South Dakota", "606": "Kentucky",
	"607": "New York", "608": "Wisconsin", "609": "New Jersey",
	"610": "Pennsylvania", "612": "Minnesota", "614": "Ohio",
	"615": "Tennessee", "616": "Michigan", "617": "Massachusetts",
	"618": "Illinois", "619": "California", "620": "Kansas",
	"623": "Arizona", "626": "California", "630": "Illinois",
	"631": "New York", "636": "Missouri", "641": "Iowa",
	"646": "New York", "650": "California", "651": "Minnesota",
	"660": "Missouri", "661": "California", "662": "Mississippi",
	"678": "Georgia", "682": "Texas", "701": "North Dakota",
	"702": "Nevada", "703": "Virginia", "704": "North Carolina",
	"706": "Georgia", "707": "California", "708": "Illinois",
	"712": "Iowa", "713": "Texas", "714": "California",
	"715": "Wisconsin", "716": "New York", "717": "Pennsylvania",
	"718": "New York", "719": "Colorado", "720": "Colorado",
	"724": "Pennsylvania", "727": "Florida", "731": "Tennessee",
	"732": "New Jersey", "734": "Michigan", "740": "Ohio",
	"747": "California", "754": "Florida", "757": "Virginia",
	"760": "California", "763": "Minnesota", "765": "Indiana",
	"770": "Georgia", "772": "Florida", "773": "Illinois",
	"774": "Massachusetts", "775": "Nevada", "781": "Massachusetts",
	"785": "Kansas", "786": "Florida", "801": "Utah",
	"802": "Vermont", "803": "South Carolina", "804": "Virginia",
	"805": "California", "806": "Texas", "808": "Hawaii",
	"810": "Michigan", "812": "Indiana", "813": "Florida",
	"814": "Pennsylvania", "815": "Illinois", "816": "Missouri",
	"817": "Texas", "818": "California", "828": "North Carolina",
	"830": "Texas", "831": "California", "832": "Texas",
	"843": "South Carolina", "845": "New York", "847": "Illinois",
	"850": "Florida", "856": "New Jersey", "857": "Massachusetts",
	"858": "California", "859": "Kentucky", "860": "Connecticut",
	"862": "New Jersey", "863": "Florida", "864": "South Carolina",
	"865": "Tennessee", "870": "Arkansas", "901": "Tennessee",
	"903": "Texas", "904": "Florida", "907": "Alaska",
	"908": "New Jersey", "909": "California", "910": "North Carolina",
	"912": "Georgia", "913": "Kansas", "914": "New York",
	"915": "Texas", "916": "California", "917": "New York",
	"918": "Oklahoma", "919": "North Carolina", "920": "Wisconsin",
	"925": "California", "928": "Arizona", "931": "Tennessee",
	"936": "Texas", "937": "Ohio", "940": "Texas",
	"941": "Florida", "949": "California", "951": "California",
	"952": "Minnesota", "954": "Florida", "956": "Texas",
	"970": "Colorado", "971": "Oregon", "972": "Texas",
	"973": "New Jersey", "978": "Massachusetts", "979": "Texas",
	"980": "North Carolina", "985": "Louisiana", "989": "Michigan",
}

// voipAreaCodes are NANP overlay codes disproportionately assigned to
// VoIP carriers. Membership only influences the line-type hint.
var voipAreaCodes = map[string]bool{
	"424": true, "442": true, "559": true,
	"657": true, "669": true, "747": true,
}

// PhoneNumber is an immutable value object representing a validated,
// normalized phone number. It is created once per session and used as
// the correlation key for everything the session finds.
//
// Design decision: we store the fully normalized digit string and derive
// every display form from it, rather than keeping the raw input around
// as the source of truth. The raw input is preserved only for reporting.
type PhoneNumber struct {
	raw         string // original user input, untouched
	countryCode string // calling code without the plus sign
	national    string // digits after the country code
}

// NewPhoneNumber parses and validates a raw phone number input.
// Accepted inputs include E.164 ("+15551234567"), bare 10/11-digit NANP
// numbers, and any of those with common punctuation.
func NewPhoneNumber(raw string) (PhoneNumber, error) {
	trimmed := strings.TrimSpace(raw)
	hasPlus := strings.HasPrefix(trimmed, "+")
	digits := DigitsOnly(trimmed)

	if digits == "" {
		return PhoneNumber{}, ErrEmptyPhoneNumber
	}
	if len(digits) < minPhoneDigits {
		return PhoneNumber{}, ErrPhoneNumberTooShort
	}
	if len(digits) > maxPhoneDigits {
		return PhoneNumber{}, ErrPhoneNumberTooLong
	}

	cc, national, ok := splitCountryCode(digits, hasPlus)
	if !ok {
		return PhoneNumber{}, ErrUnknownCountryCode
	}

	return PhoneNumber{
		raw:         trimmed,
		countryCode: cc,
		national:    national,
	}, nil
}

// MustNewPhoneNumber creates a PhoneNumber or panics if invalid.
// Use only for known-valid numbers in tests.
func MustNewPhoneNumber(raw string) PhoneNumber {
	p, err := NewPhoneNumber(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// splitCountryCode identifies the calling code prefix of a digit string.
// Numbers without an explicit "+" fall back to NANP assumptions for
// 10-digit and 1-prefixed 11-digit inputs, matching how people type US
// numbers into lookup tools.
func splitCountryCode(digits string, hasPlus bool) (cc, national string, ok bool) {
	if hasPlus || len(digits) > 11 {
		// Calling codes are 1-3 digits; longest match wins so that
		// e.g. "351..." resolves to Portugal, not an unknown "3".
		for length := 3; length >= 1; length-- {
			if len(digits) <= length {
				continue
			}
			code := digits[:length]
			if _, exists := countryCodes[code]; exists {
				return code, digits[length:], true
			}
		}
	}

	if len(digits) == 10 {
		return "1", digits, true
	}
	if len(digits) == 11 && digits[0] == '1' {
		return "1", digits[1:], true
	}

	return "", "", false
}

// DigitsOnly strips every non-digit rune from s.
// Shared by the phone parser and the associated-phone extractor so both
// normalize candidate numbers the same way.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Raw returns the original input string.
func (p PhoneNumber) Raw() string { return p.raw }

// CountryCode returns the calling code without the plus sign.
func (p PhoneNumber) CountryCode() string { return p.countryCode }

// National returns the digits after the country code.
func (p PhoneNumber) National() string { return p.national }

// Digits returns the full digit string including the country code.
// This is the canonical correlation key for the session.
func (p PhoneNumber) Digits() string { return p.countryCode + p.national }

// E164 returns the number in E.164 format ("+15551234567").
func (p PhoneNumber) E164() string { return "+" + p.Digits() }

// Country returns the country name for the calling code.
func (p PhoneNumber) Country() string {
	if name, ok := countryCodes[p.countryCode]; ok {
		return name
	}
	return "Unknown"
}

// IsNANP reports whether the number belongs to the North American
// Numbering Plan (country code 1).
func (p PhoneNumber) IsNANP() bool { return p.countryCode == "1" }

// AreaCode returns the NANP area code, or empty for non-NANP numbers.
func (p PhoneNumber) AreaCode() string {
	if !p.IsNANP() || len(p.national) < 3 {
		return ""
	}
	return p.national[:3]
}

// Location returns the state or region for NANP numbers, or empty when
// unknown.
func (p PhoneNumber) Location() string {
	return usAreaCodes[p.AreaCode()]
}

// LineType returns a coarse line-type hint. Without a carrier lookup
// API this can only flag area codes commonly assigned to VoIP carriers.
func (p PhoneNumber) LineType() string {
	if voipAreaCodes[p.AreaCode()] {
		return "Possibly VoIP"
	}
	return "Unknown (landline/mobile/VoIP)"
}

// Display returns a human-readable representation:
// "+1 (555) 123-4567" for NANP numbers, "+<cc> <national>" otherwise.
func (p PhoneNumber) Display() string {
	if p.IsNANP() && len(p.national) == 10 {
		return fmt.Sprintf("+1 (%s) %s-%s", p.national[:3], p.national[3:6], p.national[6:])
	}
	return fmt.Sprintf("+%s %s", p.countryCode, p.national)
}

// FormatVariants returns the textual forms this number commonly appears
// in on web pages. The variants drive two things: search query
// construction (each variant is quoted into the query) and the name
// extractor's proximity scoring.
func (p PhoneNumber) FormatVariants() []string {
	if p.IsNANP() && len(p.national) == 10 {
		d := p.national
		return []string{
			p.E164(),
			"1" + d,
			d,
			fmt.Sprintf("(%s) %s-%s", d[:3], d[3:6], d[6:]),
			fmt.Sprintf("%s-%s-%s", d[:3], d[3:6], d[6:]),
			fmt.Sprintf("%s.%s.%s", d[:3], d[3:6], d[6:]),
			fmt.Sprintf("%s %s %s", d[:3], d[3:6], d[6:]),
			fmt.Sprintf("+1 (%s) %s-%s", d[:3], d[3:6], d[6:]),
			fmt.Sprintf("1-%s-%s-%s", d[:3], d[3:6], d[6:]),
		}
	}
	return []string{
		p.E164(),
		p.Digits(),
		fmt.Sprintf("+%s %s", p.countryCode, p.national),
	}
}

// Equal reports whether two phone numbers are the same normalized number.
func (p PhoneNumber) Equal(other PhoneNumber) bool {
	return p.Digits() == other.Digits()
}

// IsZero reports whether the value is the uninitialized zero PhoneNumber.
func (p PhoneNumber) IsZero() bool {
	return p.countryCode == "" && p.national == ""
}

// String implements fmt.Stringer using the display format.
func (p PhoneNumber) String() string { return p.Display() }
