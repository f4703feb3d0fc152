// Package templates renders the HTML pages of the web UI as templ components.
//
// The *_templ.go files are generated from the .templ sources with
// `templ generate`; edit the .templ files, not the generated code.
package templates

import "fmt"

func humanSize(n int64) string {
	const mib = 1 << 20
	if n >= mib && n%mib == 0 {
		return fmt.Sprintf("%d MB", n/mib)
	}
	if n >= 1<<10 {
		return fmt.Sprintf("%d KB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}
