// Package reply renders outbound text as the XML envelope the SMS gateway
// expects in a webhook response.
package reply

import (
	"fmt"
	"html"
)

const ContentType = "application/xml"

// EmptyMessage replaces blank replies so the gateway never sends an empty SMS.
const EmptyMessage = "No content."

const envelope = `<?xml version="1.0" encoding="UTF-8"?>
<Response>
    <Message>%s</Message>
</Response>`

// Render wraps msg in the response envelope with markup characters escaped.
func Render(msg string) string {
	if msg == "" {
		msg = EmptyMessage
	}
	return fmt.Sprintf(envelope, html.EscapeString(msg))
}
