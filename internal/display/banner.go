package display

import (
	"fmt"
	"os"

	"github.com/backmassage/packrat/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Cyan if colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, term.Cyan)
	}
	fmt.Fprint(os.Stdout, ` ____            _    ____       _
|  _ \ __ _  ___| | _|  _ \ __ _| |_
| |_) / _` + "`" + ` |/ __| |/ / |_) / _` + "`" + ` | __|
|  __/ (_| | (__|   <|  _ < (_| | |_
|_|   \__,_|\___|_|\_\_| \_\__,_|\__|
`)
	if term.Enabled() {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
