package portal

import (
	"crypto/subtle"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Mingyu-Kim/IotWebConfLite/internal/logging"
	"go.uber.org/zap"
)

// DefaultAPAddress is the redirect target when the local address of a
// connection is unknown.
const DefaultAPAddress = "192.168.4.1"

const thingNameError = "Give a name with at least 3 characters."

func noCache(h http.Header) {
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "-1")
}

func (p *Portal) authenticate(r *http.Request) bool {
	user, pass, ok := r.BasicAuth()
	if !ok {
		return false
	}
	want := p.APPassword()
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(AdminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(want)) == 1
	return userOK && passOK
}

// HandleConfig serves the config page. A request without the save marker
// gets the form; a submission is applied, validated and persisted when
// valid, or answered with the annotated form when not.
func (p *Portal) HandleConfig(w http.ResponseWriter, r *http.Request) {
	if !p.authenticate(r) {
		logging.Debug("Requesting authentication", zap.String("remote_addr", r.RemoteAddr))
		w.Header().Set("WWW-Authenticate", `Basic realm="Login Required"`)
		http.Error(w, "401 Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Malformed form data", http.StatusBadRequest)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !r.Form.Has(SaveMarker) {
		logging.Debug("Configuration page requested")
		p.renderForm(w, false)
		return
	}

	if !p.apply(r.Form) {
		logging.Info("Form validation failed", zap.String("remote_addr", r.RemoteAddr))
		p.renderForm(w, true)
		return
	}

	if err := p.save(); err != nil {
		http.Error(w, "Failed to save configuration", http.StatusInternalServerError)
		return
	}
	p.renderSaved(w)
}

// apply copies the submission into the tree once and then validates the
// result. Every submitted field is kept in its buffer even when the form is
// rejected.
func (p *Portal) apply(form url.Values) bool {
	p.root.ClearError()
	p.root.Update(form)

	valid := true
	if p.formValidator != nil {
		valid = p.formValidator(form)
	}

	// A submission without the field counts as an empty name.
	if !form.Has(ThingNameID) || utf8.RuneCountInString(p.thingName.Value()) < MinThingNameLength {
		p.thingName.SetErrorMessage(thingNameError)
		valid = false
	}
	return valid && !p.root.HasError()
}

func (p *Portal) writeHead(w io.Writer) {
	f := p.formatter
	io.WriteString(w, f.Head(PageTitle))
	io.WriteString(w, f.Script())
	io.WriteString(w, f.Style())
	io.WriteString(w, f.HeadExtension())
	io.WriteString(w, f.HeadEnd())
}

// renderForm streams the form page. hasSubmittedData enables the per-item
// error annotations.
func (p *Portal) renderForm(w http.ResponseWriter, hasSubmittedData bool) {
	noCache(w.Header())
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	w.WriteHeader(http.StatusOK)

	p.writeHead(w)
	io.WriteString(w, p.formatter.FormStart())
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	if err := p.root.Render(w, hasSubmittedData); err != nil {
		logging.Warn("Rendering config form aborted", zap.Error(err))
		return
	}

	io.WriteString(w, p.formatter.FormEnd())
	if p.opts.UpdatePath != "" {
		io.WriteString(w, p.formatter.Update(p.opts.UpdatePath))
	}
	io.WriteString(w, p.formatter.ConfigVersion(p.opts.ConfigVersion))
	io.WriteString(w, p.formatter.End())
}

func (p *Portal) renderSaved(w http.ResponseWriter) {
	var page strings.Builder
	p.writeHead(&page)
	page.WriteString(p.formatter.Saved())
	page.WriteString(p.formatter.End())

	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	w.Header().Set("Content-Length", strconv.Itoa(page.Len()))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, page.String())
}

// HandleCaptivePortal redirects requests addressed to a foreign host name to
// the device itself. It reports true when it answered the request.
func (p *Portal) HandleCaptivePortal(w http.ResponseWriter, r *http.Request) bool {
	host := hostname(r.Host)
	if host == "" || net.ParseIP(host) != nil {
		return false
	}
	if strings.HasPrefix(strings.ToLower(host), strings.ToLower(p.ThingName())) {
		return false
	}

	target := "http://" + localAddress(r)
	logging.Info("Captive portal redirect",
		zap.String("host", r.Host),
		zap.String("location", target),
	)
	w.Header().Set("Location", target)
	w.WriteHeader(http.StatusFound)
	return true
}

// hostname strips the port and IPv6 brackets from a Host header.
func hostname(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
}

// localAddress is the address the client reached us on.
func localAddress(r *http.Request) string {
	addr, ok := r.Context().Value(http.LocalAddrContextKey).(net.Addr)
	if !ok {
		return DefaultAPAddress
	}
	tcp, ok := addr.(*net.TCPAddr)
	if !ok || tcp.IP == nil || tcp.IP.IsUnspecified() {
		return DefaultAPAddress
	}
	if tcp.Port == 80 || tcp.Port == 0 {
		if tcp.IP.To4() == nil {
			return "[" + tcp.IP.String() + "]"
		}
		return tcp.IP.String()
	}
	return net.JoinHostPort(tcp.IP.String(), strconv.Itoa(tcp.Port))
}

// HandleNotFound answers unknown paths after the captive portal check.
func (p *Portal) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	if p.HandleCaptivePortal(w, r) {
		return
	}
	logging.Debug("Requested a non-existing page", zap.String("uri", r.URL.RequestURI()))

	message := "Requested a non-existing page\n\nURI: " + r.URL.RequestURI() + "\n"
	noCache(w.Header())
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Length", strconv.Itoa(len(message)))
	w.WriteHeader(http.StatusNotFound)
	io.WriteString(w, message)
}

// HandleRoot serves a minimal index page linking to the config page.
func (p *Portal) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if p.HandleCaptivePortal(w, r) {
		return
	}
	var page strings.Builder
	p.writeHead(&page)
	page.WriteString("<div>Go to <a href='config'>configure page</a> to change settings.</div>\n")
	page.WriteString(p.formatter.End())

	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, page.String())
}
