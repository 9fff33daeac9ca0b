package assets

// ScriptRegistry records script registrations and which handles are printed on the page.
type ScriptRegistry interface {
	Register(handle, src string, deps []string, version string, inFooter bool) error
	Enqueue(handle string) error
	IsRegistered(handle string) bool
}

// TranslationRegistry attaches a translation catalog directory to a handle.
type TranslationRegistry interface {
	SetTranslations(handle, domain, path string) error
}

// Localizer injects a named data object next to a script.
type Localizer interface {
	Localize(handle, objectName string, data map[string]any) error
}

// Registry is everything a Script delegates to.
type Registry interface {
	ScriptRegistry
	TranslationRegistry
	Localizer
}
