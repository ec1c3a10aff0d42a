package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Mingyu-Kim/IotWebConfLite/internal/param"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/portal"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/storage"
)

const testPassword = "initialpw"

type fixture struct {
	portal  *portal.Portal
	backend *storage.MemoryBackend
	server  *httptest.Server
	broker  *param.Text
	enabled *param.Checkbox
	mode    *param.Select
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	backend := storage.NewMemoryBackend(nil)
	p, err := portal.New(portal.Options{
		ThingName:         "mything",
		InitialAPPassword: testPassword,
		ConfigVersion:     "c001",
		Medium:            storage.NewEmulated(backend),
	})
	if err != nil {
		t.Fatalf("portal.New() error: %v", err)
	}

	f := fixture{
		portal:  p,
		backend: backend,
		broker:  param.NewText("broker", "Broker", 32, "mqtt.local"),
		enabled: param.NewCheckbox("enabled", "Enabled", true),
		mode:    param.NewSelect("mode", "Mode", 8, []param.Option{{Value: "auto", Label: "Auto"}, {Value: "manual", Label: "Manual"}}, "auto"),
	}
	group := param.NewGroup("mqtt", "MQTT")
	group.AddItem(f.broker)
	group.AddItem(f.enabled)
	group.AddItem(f.mode)
	p.AddParameterGroup(group)

	if _, err := p.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	f.server = httptest.NewServer(p.Handler())
	t.Cleanup(f.server.Close)
	return f
}

func (f fixture) client(password string) *Client {
	c := NewClientWithURL(f.server.URL, password)
	c.SetRetry(0, time.Millisecond)
	return c
}

func TestNewClient(t *testing.T) {
	c := NewClient("192.168.4.1", 80, "secret")

	if c.BaseURL != "http://192.168.4.1:80" {
		t.Errorf("BaseURL = %s, want http://192.168.4.1:80", c.BaseURL)
	}
	if c.Username != portal.AdminUser {
		t.Errorf("Username = %s, want %s", c.Username, portal.AdminUser)
	}
	if c.Password != "secret" {
		t.Errorf("Password = %s, want secret", c.Password)
	}
	if c.HTTPClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.HTTPClient.Timeout, DefaultTimeout)
	}

	if got := NewClientWithURL("http://host:8080/", "").BaseURL; got != "http://host:8080" {
		t.Errorf("trailing slash kept: %s", got)
	}
}

func TestFetchForm(t *testing.T) {
	f := newFixture(t)

	form, err := f.client(testPassword).FetchForm(context.Background())
	if err != nil {
		t.Fatalf("FetchForm() error = %v", err)
	}
	if form.Saved {
		t.Error("config page reported as saved page")
	}
	if form.ConfigVersion != "c001" {
		t.Errorf("ConfigVersion = %q, want c001", form.ConfigVersion)
	}

	tests := []struct {
		id      string
		typ     string
		value   string
		checked bool
	}{
		{portal.ThingNameID, "text", "mything", false},
		{portal.APPasswordID, "password", "", false},
		{"broker", "text", "mqtt.local", false},
		{"enabled", "checkbox", "selected", true},
		{"mode", "select", "auto", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			field := form.Field(tt.id)
			if field == nil {
				t.Fatalf("field %s missing", tt.id)
			}
			if field.Type != tt.typ || field.Value != tt.value || field.Checked != tt.checked {
				t.Errorf("field = %+v", *field)
			}
		})
	}

	if form.Field(portal.SaveMarker) != nil {
		t.Error("hidden save marker listed as a field")
	}
	if form.Field(portal.APTimeoutID) != nil {
		t.Error("invisible parameter listed as a field")
	}
	if got := form.Field("mode").Options; len(got) != 2 || got[1] != "manual" {
		t.Errorf("Options = %v", got)
	}
	if got := form.Field("broker").Label; got != "Broker" {
		t.Errorf("Label = %q, want Broker", got)
	}
}

func TestFetchFormWrongPassword(t *testing.T) {
	f := newFixture(t)

	_, err := f.client("wrong").FetchForm(context.Background())
	if !IsAuthError(err) {
		t.Fatalf("FetchForm() error = %v, want auth error", err)
	}
	if IsRetryable(err) {
		t.Error("auth errors should not be retried")
	}
}

func TestSetKeepsOtherValues(t *testing.T) {
	f := newFixture(t)
	c := f.client(testPassword)

	if _, err := c.Set(context.Background(), map[string]string{"mode": "manual", "enabled": "false"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if f.mode.Value() != "manual" {
		t.Errorf("mode = %q, want manual", f.mode.Value())
	}
	if f.enabled.Checked() {
		t.Error("enabled should be cleared")
	}
	if f.broker.Value() != "mqtt.local" {
		t.Errorf("broker changed to %q", f.broker.Value())
	}
	if f.portal.ThingName() != "mything" {
		t.Errorf("thing name changed to %q", f.portal.ThingName())
	}
	if f.portal.APPassword() != testPassword {
		t.Error("AP password should be unchanged when the field is left out")
	}
}

func TestSetRejected(t *testing.T) {
	f := newFixture(t)
	c := f.client(testPassword)

	_, err := c.Set(context.Background(), map[string]string{portal.ThingNameID: "ab"})
	if !IsRejectedError(err) {
		t.Fatalf("Set() error = %v, want rejected", err)
	}
	var clientErr *ClientError
	if !errors.As(err, &clientErr) || clientErr.FieldErrors[portal.ThingNameID] == "" {
		t.Errorf("FieldErrors = %v", clientErr.FieldErrors)
	}
	if saves := f.backend.Saves(); saves != 0 {
		t.Errorf("rejected submission saved %d times", saves)
	}
}

func TestSetUnknownParameter(t *testing.T) {
	f := newFixture(t)

	_, err := f.client(testPassword).Set(context.Background(), map[string]string{"nope": "1"})
	if !IsValidationError(err) {
		t.Fatalf("Set() error = %v, want validation error", err)
	}
}

func TestSetCheckboxExpectsBool(t *testing.T) {
	f := newFixture(t)

	_, err := f.client(testPassword).Set(context.Background(), map[string]string{"enabled": "maybe"})
	if !IsValidationError(err) {
		t.Fatalf("Set() error = %v, want validation error", err)
	}
}

func TestSubmitReturnsSavedPage(t *testing.T) {
	f := newFixture(t)

	form, err := f.client(testPassword).Submit(context.Background(), url.Values{
		portal.ThingNameID: {"kitchen"},
		"broker":           {"10.0.0.2"},
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !form.Saved {
		t.Error("Submit() should return the saved page")
	}
	if f.portal.ThingName() != "kitchen" {
		t.Errorf("thing name = %q, want kitchen", f.portal.ThingName())
	}
}

func TestPing(t *testing.T) {
	f := newFixture(t)
	if err := f.client(testPassword).Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClientWithURL(server.URL, "")
	c.SetRetry(3, time.Millisecond)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestRetryGivesUp(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClientWithURL(server.URL, "")
	c.SetRetry(2, time.Millisecond)
	err := c.Ping(context.Background())

	var clientErr *ClientError
	if !errors.As(err, &clientErr) || clientErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("Ping() error = %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestParseFormSavedPage(t *testing.T) {
	page := "<!DOCTYPE html><html><body><div>" + portal.HTMLSaved + portal.HTMLEnd
	form, err := ParseForm(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParseForm() error = %v", err)
	}
	if !form.Saved || len(form.Fields) != 0 {
		t.Errorf("form = %+v", form)
	}
}

func TestFormValuesOmitsPasswords(t *testing.T) {
	form := &Form{Fields: []Field{
		{ID: "name", Type: "text", Value: "x"},
		{ID: "pw", Type: "password"},
		{ID: "on", Type: "checkbox", Checked: true},
		{ID: "off", Type: "checkbox"},
	}}

	values := form.Values()
	if _, ok := values["pw"]; ok {
		t.Error("password should be left out")
	}
	if values.Get("on") != "selected" {
		t.Error("checked box should be submitted")
	}
	if _, ok := values["off"]; ok {
		t.Error("unchecked box should be left out")
	}
	if values.Get("name") != "x" {
		t.Errorf("name = %q", values.Get("name"))
	}
}
