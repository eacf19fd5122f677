package template

import "sort"

// The template set is closed: adding a message means adding a source here
// and redeploying. Subjects and bodies are Liquid sources; every body links
// the guest straight into their RSVP session via login_url.

type source struct {
	Subject string
	HTML    string
	Text    string
}

var sources = map[string]source{
	"rsvp_reminder": {
		Subject: `{{ name }}, we still need your RSVP!`,
		HTML: `<html>
  <body style="font-family: Georgia, serif; color: #3d3d3d;">
    <h2>Hi {{ name }},</h2>
    <p>We noticed you haven't RSVP'd yet &mdash; we'd love to know if you can make it.</p>
    <p><a href="{{ login_url }}">Tap here to RSVP</a> &mdash; no password needed, the link signs you in.</p>
    <p>See you soon,<br/>The happy couple</p>
  </body>
</html>`,
		Text: `Hi {{ name }},

We noticed you haven't RSVP'd yet - we'd love to know if you can make it.

RSVP here (no password needed): {{ login_url }}

See you soon,
The happy couple`,
	},

	"save_the_date": {
		Subject: `Save the date, {{ name }}!`,
		HTML: `<html>
  <body style="font-family: Georgia, serif; color: #3d3d3d;">
    <h2>Dear {{ name }},</h2>
    <p>We're getting married &mdash; and we want you there!</p>
    <p>Details, travel notes and the RSVP form live on <a href="{{ login_url }}">our wedding site</a>.</p>
  </body>
</html>`,
		Text: `Dear {{ name }},

We're getting married - and we want you there!

Details, travel notes and the RSVP form: {{ login_url }}`,
	},

	"final_details": {
		Subject: `Final details for the big day`,
		HTML: `<html>
  <body style="font-family: Georgia, serif; color: #3d3d3d;">
    <h2>Hi {{ name }},</h2>
    <p>The day is almost here! Schedule, venue directions and parking are all on <a href="{{ login_url }}">your guest page</a>.</p>
    <p>Can't wait to celebrate with you.</p>
  </body>
</html>`,
		Text: `Hi {{ name }},

The day is almost here! Schedule, venue directions and parking:
{{ login_url }}

Can't wait to celebrate with you.`,
	},
}

// IDs returns the known template ids in stable order, for validation and
// admin listings.
func IDs() []string {
	out := make([]string, 0, len(sources))
	for id := range sources {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Known reports whether id names a template in the closed set.
func Known(id string) bool {
	_, ok := sources[id]
	return ok
}
