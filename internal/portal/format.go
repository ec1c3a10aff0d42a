package portal

import "strings"

// HTML page fragments of the config portal.
const (
	HTMLHead = "<!DOCTYPE html><html lang=\"en\"><head><meta name=\"viewport\" " +
		"content=\"width=device-width, initial-scale=1, user-scalable=no\"/><title>{v}</title>\n"

	HTMLStyleInner = ".de{background-color:#ffaaaa;} " +
		".em{font-size:0.8em;color:#bb0000;padding-bottom:0px;} .c{text-align: center;} " +
		"div,input,select{padding:5px;font-size:1em;} input{width:95%;} select{width:100%} " +
		"input[type=checkbox]{width:auto;scale:1.5;margin:10px;} " +
		"body{text-align: center;font-family:verdana;} " +
		"button{border:0;border-radius:0.3rem;background-color:#16A1E7;color:#fff;" +
		"line-height:2.4rem;font-size:1.2rem;width:100%;} " +
		"fieldset{border-radius:0.3rem;margin: 0px;}\n"

	HTMLScriptInner = "function c(l){document.getElementById('s').value=l.innerText||l.textContent;" +
		"document.getElementById('p').focus();}; " +
		"function pw(id) { var x=document.getElementById(id); " +
		"if(x.type==='password') {x.type='text';} else {x.type='password';} };"

	HTMLHeadEnd   = "</head><body>"
	HTMLBodyInner = "<div style='text-align:left;display:inline-block;min-width:260px;'>\n"

	HTMLFormStart = "<form action='' method='post'><input type='hidden' name='" + SaveMarker + "' value='true'>\n"
	HTMLFormEnd   = "<button type='submit' style='margin-top: 10px;'>Apply</button></form>\n"

	HTMLSaved = "<div>Configuration saved<br />Return to <a href='/'>home page</a>.</div>\n"
	HTMLEnd   = "</div></body></html>"

	HTMLUpdate    = "<div style='padding-top:25px;'><a href='{u}'>Firmware update</a></div>\n"
	HTMLConfigVer = "<div style='font-size: .6em;'>Firmware config version '{v}'</div>\n"
)

// Formatter supplies the fragments a portal page is assembled from.
// Implementations usually embed DefaultFormatter and override a few methods.
type Formatter interface {
	// Head opens the document with the given page title.
	Head(title string) string
	Script() string
	Style() string
	HeadExtension() string
	HeadEnd() string
	FormStart() string
	FormEnd() string
	Saved() string
	// Update renders the firmware update link.
	Update(path string) string
	ConfigVersion(version string) string
	End() string
}

// DefaultFormatter renders the stock portal look.
type DefaultFormatter struct{}

func (DefaultFormatter) Head(title string) string {
	return strings.ReplaceAll(HTMLHead, "{v}", title)
}

func (DefaultFormatter) Script() string        { return "<script>" + HTMLScriptInner + "</script>" }
func (DefaultFormatter) Style() string         { return "<style>" + HTMLStyleInner + "</style>" }
func (DefaultFormatter) HeadExtension() string { return "" }
func (DefaultFormatter) HeadEnd() string       { return HTMLHeadEnd + HTMLBodyInner }
func (DefaultFormatter) FormStart() string     { return HTMLFormStart }
func (DefaultFormatter) FormEnd() string       { return HTMLFormEnd }
func (DefaultFormatter) Saved() string         { return HTMLSaved }
func (DefaultFormatter) End() string           { return HTMLEnd }

func (DefaultFormatter) Update(path string) string {
	return strings.ReplaceAll(HTMLUpdate, "{u}", path)
}

func (DefaultFormatter) ConfigVersion(version string) string {
	return strings.ReplaceAll(HTMLConfigVer, "{v}", version)
}
