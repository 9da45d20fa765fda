package keycloak

// Realm is a Keycloak realm.
type Realm struct {
	Realm   string `json:"realm"`
	Enabled bool   `json:"enabled"`
}

// Client is an OIDC/SAML client registered in a realm.
type Client struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
}

type realmItem struct {
	Realm   *string `json:"realm"`
	Enabled *bool   `json:"enabled"`
}

type clientItem struct {
	ClientID *string `json:"clientId"`
	Name     *string `json:"name"`
	Enabled  *bool   `json:"enabled"`
}

func (r realmItem) toRealm() (Realm, bool) {
	if r.Realm == nil {
		return Realm{}, false
	}
	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}
	return Realm{Realm: *r.Realm, Enabled: enabled}, true
}

func (c clientItem) toClient() (Client, bool) {
	if c.ClientID == nil {
		return Client{}, false
	}
	name := *c.ClientID
	if c.Name != nil && *c.Name != "" {
		name = *c.Name
	}
	enabled := true
	if c.Enabled != nil {
		enabled = *c.Enabled
	}
	return Client{ClientID: *c.ClientID, Name: name, Enabled: enabled}, true
}
