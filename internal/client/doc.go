// Package client drives a config portal from the command line.
//
// The portal has no machine API, so the client speaks the same protocol as a
// browser: it fetches /config with Basic auth, parses the HTML form, and posts
// the field values back with the save marker set. A submission is accepted
// when the response no longer contains the form; otherwise the per-field
// error messages are returned in a *ClientError of type ErrTypeRejected.
//
//	c := client.NewClient("192.168.4.1", 80, apPassword)
//	if _, err := c.Set(ctx, map[string]string{"mqttServer": "10.0.0.2"}); err != nil {
//	    fmt.Println(client.GetShortErrorMessage(err))
//	}
//
// Set submits every current value along with the overrides so unrelated
// checkboxes are not cleared. Password fields are left out, which keeps the
// stored secrets.
package client
