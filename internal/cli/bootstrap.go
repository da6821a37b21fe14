package cli

import (
	"fmt"
	"io"

	"github.com/Kush-Singh-26/kosh-client/client/theme"
)

// Bootstrap prints the inline <script> that applies the theme before first
// paint. It belongs at the top of <head>.
func Bootstrap(out io.Writer) error {
	tag, err := theme.BootstrapTag()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, tag)
	return err
}
