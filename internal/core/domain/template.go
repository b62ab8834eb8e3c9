package domain

type ProtocolKind string

const (
	ProtocolSOAP ProtocolKind = "SOAP"
)

type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeInt    FieldType = "int"
	FieldTypeBool   FieldType = "bool"
	FieldTypeSecret FieldType = "secret"
)

// TemplateField declares one configuration key a template expects.
// Encrypt marks keys the configuration store must keep encrypted at
// rest; the encryption itself is the store's concern.
type TemplateField struct {
	Key      string
	Label    string
	Type     FieldType
	Required bool
	Encrypt  bool
	Default  string
}

// IntegrationTemplate is the static descriptor of one vendor
// integration. Immutable, loaded at startup.
type IntegrationTemplate struct {
	Slug     string
	Name     string
	Protocol ProtocolKind
	Fields   []TemplateField
}

func (t IntegrationTemplate) Field(key string) (TemplateField, bool) {
	for _, f := range t.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return TemplateField{}, false
}

// Defaults returns the template-declared default values, used as the
// bottom layer of the effective-config merge.
func (t IntegrationTemplate) Defaults() map[string]string {
	defaults := make(map[string]string)
	for _, f := range t.Fields {
		if f.Default != "" {
			defaults[f.Key] = f.Default
		}
	}
	return defaults
}

// Configuration keys shared by both vendor templates.
const (
	ConfigKeyEndpoint  = "endpoint_url"
	ConfigKeyUsername  = "username"
	ConfigKeyPassword  = "password"
	ConfigKeyLabCode   = "lab_code"
	ConfigKeyTimeout   = "timeout_seconds"
	ConfigKeyPrinter   = "label_printer"
	ConfigKeyAuditWire = "audit_wire"
)

const (
	TemplateLabmax    = "labmax"
	TemplateBiocentro = "biocentro"
)

// TemplateRegistry returns the static templates for the two supported
// vendors. Labmax embeds lab_code/password in every call payload;
// Biocentro authenticates once per token TTL with username/password.
func TemplateRegistry() map[string]IntegrationTemplate {
	return map[string]IntegrationTemplate{
		TemplateLabmax: {
			Slug:     TemplateLabmax,
			Name:     "Labmax Diagnósticos",
			Protocol: ProtocolSOAP,
			Fields: []TemplateField{
				{Key: ConfigKeyEndpoint, Label: "Endpoint URL", Type: FieldTypeString, Required: true},
				{Key: ConfigKeyLabCode, Label: "Lab client code", Type: FieldTypeString, Required: true},
				{Key: ConfigKeyPassword, Label: "Password", Type: FieldTypeSecret, Required: true, Encrypt: true},
				{Key: ConfigKeyTimeout, Label: "Timeout (seconds)", Type: FieldTypeInt, Default: "30"},
				{Key: ConfigKeyPrinter, Label: "Label printer model", Type: FieldTypeString, Default: "zebra"},
				{Key: ConfigKeyAuditWire, Label: "Audit raw payloads", Type: FieldTypeBool, Default: "false"},
			},
		},
		TemplateBiocentro: {
			Slug:     TemplateBiocentro,
			Name:     "Biocentro Laboratórios",
			Protocol: ProtocolSOAP,
			Fields: []TemplateField{
				{Key: ConfigKeyEndpoint, Label: "Endpoint URL", Type: FieldTypeString, Required: true},
				{Key: ConfigKeyUsername, Label: "Username", Type: FieldTypeString, Required: true},
				{Key: ConfigKeyPassword, Label: "Password", Type: FieldTypeSecret, Required: true, Encrypt: true},
				{Key: ConfigKeyTimeout, Label: "Timeout (seconds)", Type: FieldTypeInt, Default: "60"},
				{Key: ConfigKeyAuditWire, Label: "Audit raw payloads", Type: FieldTypeBool, Default: "false"},
			},
		},
	}
}
