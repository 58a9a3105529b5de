package theme

import (
	"fmt"
	"io"
)

// Banner returns the tool banner shown by init and bare invocations.
func Banner() string {
	const cyan = "\033[36m"
	const magenta = "\033[35m"
	const reset = "\033[0m"

	return "" +
		magenta + "  snsdedupe" + reset + "\n" +
		cyan + "  ─────────────────────────────────────────\n" + reset +
		"  skip posts that are already scheduled\n"
}

// PrintBanner writes the banner to w.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, Banner())
}
