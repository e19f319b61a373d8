package browser

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chromedp/chromedp"

	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/scan"
)

const styleElementID = "rmaio-style"

// injectStyleSheet installs the suppression rule set once per document. The
// rules key on the marker attribute, so marking an element is all a wave
// needs to do.
func injectStyleSheet() chromedp.Action {
	script := fmt.Sprintf(`(function(){
  if (document.getElementById(%q)) { return; }
  var st = document.createElement('style');
  st.id = %q;
  st.textContent = %s;
  (document.head || document.documentElement).appendChild(st);
})()`, styleElementID, styleElementID, strconv.Quote(scan.StyleSheet))
	return chromedp.Evaluate(script, nil)
}

// markElement sets the suppression marker on the live element addressed by a
// positional selector path. Element gone by the time the wave lands is not
// an error; the next mutation batch re-evaluates anyway.
func markElement(ctx context.Context, path, marker string) error {
	if path == "" {
		return fmt.Errorf("browser: empty element path")
	}
	script := fmt.Sprintf(`(function(){
  var el = document.querySelector(%s);
  if (el) { el.setAttribute(%q, %q); }
})()`, strconv.Quote(path), scan.MarkerAttr, marker)
	return chromedp.Run(ctx, chromedp.Evaluate(script, nil))
}
