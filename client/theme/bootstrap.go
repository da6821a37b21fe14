package theme

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// BootstrapScript is embedded inline in <head> so the first paint already has
// the right class. The Controller takes over once the page has loaded.
const BootstrapScript = `(function () {
  var theme = null;
  try {
    theme = localStorage.getItem("theme");
  } catch (e) {
    theme = null;
  }
  if (theme !== "light" && theme !== "dark") {
    var dark = window.matchMedia && window.matchMedia("(prefers-color-scheme: dark)").matches;
    theme = dark ? "dark" : "light";
  }
  document.documentElement.className = theme;
})();
`

// MinifiedBootstrap returns BootstrapScript minified for inlining.
func MinifiedBootstrap() (string, error) {
	result := api.Transform(BootstrapScript, api.TransformOptions{
		Loader:            api.LoaderJS,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, m := range result.Errors {
			msgs = append(msgs, m.Text)
		}
		return "", fmt.Errorf("failed to minify bootstrap: %s", strings.Join(msgs, "; "))
	}
	return strings.TrimSpace(string(result.Code)), nil
}

// BootstrapTag wraps the minified script in a <script> element.
func BootstrapTag() (string, error) {
	js, err := MinifiedBootstrap()
	if err != nil {
		return "", err
	}
	return "<script>" + js + "</script>", nil
}
