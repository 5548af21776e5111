package export

import (
	"bytes"
	"fmt"

	"github.com/jhillyerd/enmime"
)

// ComposeMessage builds the RFC 2822 message carrying the rendered
// batch as its HTML body.
func ComposeMessage(from, to, subject, html string) ([]byte, error) {
	text := subject + "\r\n\r\nEste pedido requiere un cliente de correo con soporte HTML."

	builder := enmime.Builder().
		From("", from).
		To("", to).
		Subject(subject).
		Text([]byte(text)).
		HTML([]byte(html))

	part, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build message: %w", err)
	}

	var buf bytes.Buffer
	if err := part.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return buf.Bytes(), nil
}
