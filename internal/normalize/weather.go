package normalize

import (
	"regexp"
)

type WeatherCode string

const (
	WeatherSunny        WeatherCode = "sunny"
	WeatherPartlyCloudy WeatherCode = "partly_cloudy"
	WeatherCloudy       WeatherCode = "cloudy"
	WeatherRainy        WeatherCode = "rainy"
	WeatherStormy       WeatherCode = "stormy"
	WeatherRainbow      WeatherCode = "rainbow"
	WeatherFoggy        WeatherCode = "foggy"
	WeatherUnknown      WeatherCode = "unknown"
)

// WeatherRule maps any of Patterns (case-insensitive regexps) to Code.
type WeatherRule struct {
	Code     WeatherCode
	Patterns []string
}

// DefaultWeatherRules returns the English and Indonesian/Malay table. Order
// matters: compound forms come before the words they contain.
func DefaultWeatherRules() []WeatherRule {
	return []WeatherRule{
		{WeatherRainbow, []string{`rainbow`, `pelangi`}},
		{WeatherStormy, []string{`storm`, `thunder`, `lightning`, `badai`, `petir`, `ribut`, `guntur`}},
		{WeatherRainy, []string{`rain`, `drizzl`, `shower`, `hujan`, `gerimis`}},
		{WeatherPartlyCloudy, []string{`partly`, `sun\s*(and|&|\+)\s*cloud`, `cerah\s*berawan`, `sebagian\s*berawan`, `separa`}},
		{WeatherFoggy, []string{`fog`, `mist`, `haz[ey]`, `kabut`, `berkabut`, `jerebu`}},
		{WeatherCloudy, []string{`cloud`, `overcast`, `grey`, `gray`, `mendung`, `berawan`, `awan`}},
		{WeatherSunny, []string{`sun`, `clear`, `bright`, `cerah`, `terang`, `panas`}},
	}
}

type compiledRule struct {
	code     WeatherCode
	patterns []*regexp.Regexp
}

// WeatherMapper is immutable after construction and safe to share.
type WeatherMapper struct {
	rules []compiledRule
}

func NewWeatherMapper(rules []WeatherRule) (*WeatherMapper, error) {
	m := &WeatherMapper{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		cr := compiledRule{code: r.Code}
		for _, p := range r.Patterns {
			re, err := regexp.Compile(`(?i)` + p)
			if err != nil {
				return nil, err
			}
			cr.patterns = append(cr.patterns, re)
		}
		m.rules = append(m.rules, cr)
	}
	return m, nil
}

func MustWeatherMapper(rules []WeatherRule) *WeatherMapper {
	m, err := NewWeatherMapper(rules)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *WeatherMapper) Map(v any) WeatherCode {
	s := Text(v)
	if s == "" {
		return WeatherUnknown
	}
	for _, r := range m.rules {
		for _, re := range r.patterns {
			if re.MatchString(s) {
				return r.code
			}
		}
	}
	return WeatherUnknown
}
