package export

import "github.com/atotto/clipboard"

// ClipboardDeliverer copies the rendered HTML so it can be pasted
// straight into a mail client.
type ClipboardDeliverer struct{}

func (ClipboardDeliverer) Deliver(_ string, html string) error {
	return clipboard.WriteAll(html)
}
