package launch

import (
	"github.com/tidwall/gjson"
)

// Record is an upstream launch document. Fields missing from the document,
// or present with an unexpected shape, are left nil.
type Record struct {
	ID        *string
	Name      *string
	DateUnix  *int64
	DateUTC   *string
	Upcoming  *bool
	Success   *bool
	Rocket    *string
	Launchpad *string
	Payloads  []string
}

// ParseRecord reads a raw launch document
func ParseRecord(raw string) Record {

	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return Record{}
	}

	var r Record

	// identifiers are strings upstream, accept numbers rather than drop the launch
	id := doc.Get("id")
	switch id.Type {
	case gjson.String:
		r.ID = stringPtr(id.Str)
	case gjson.Number:
		r.ID = stringPtr(id.Raw)
	}

	r.Name = optString(doc.Get("name"))
	r.DateUTC = optString(doc.Get("date_utc"))
	r.Upcoming = optBool(doc.Get("upcoming"))
	r.Success = optBool(doc.Get("success"))

	if du := doc.Get("date_unix"); du.Type == gjson.Number {
		v := du.Int()
		r.DateUnix = &v
	}

	// rocket and launchpad are only usable when populated inline
	if rocket := doc.Get("rocket"); rocket.IsObject() {
		r.Rocket = optString(rocket.Get("name"))
	}
	if pad := doc.Get("launchpad"); pad.IsObject() {
		r.Launchpad = optString(pad.Get("name"))
	}

	if payloads := doc.Get("payloads"); payloads.IsArray() {
		payloads.ForEach(func(_, p gjson.Result) bool {
			if !p.IsObject() {
				return true
			}
			if name := p.Get("name"); name.Type == gjson.String {
				r.Payloads = append(r.Payloads, name.Str)
			}
			return true
		})
	}

	return r
}

func optString(g gjson.Result) *string {
	if g.Type != gjson.String {
		return nil
	}
	return stringPtr(g.Str)
}

func optBool(g gjson.Result) *bool {
	switch g.Type {
	case gjson.True, gjson.False:
		b := g.Bool()
		return &b
	}
	return nil
}

func stringPtr(s string) *string {
	return &s
}
