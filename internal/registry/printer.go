package registry

import (
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strings"
)

// Output holds the rendered markup of one page.
type Output struct {
	Head    string   `json:"head"`
	Footer  string   `json:"footer"`
	Printed []string `json:"printed"`
	// Missing lists dependencies that are not registered.
	Missing []string `json:"missing,omitempty"`
	// Skipped lists handles left out because of a missing dependency.
	Skipped []string `json:"skipped,omitempty"`
}

// Print renders every enqueued script and its dependencies, dependencies
// first. A footer script required by a head script is moved to the head.
func (r *Registry) Print(locale string) (Output, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, missing, skipped, err := r.resolve()
	if err != nil {
		return Output{}, err
	}

	inHead := make(map[string]bool, len(order))
	for _, handle := range order {
		inHead[handle] = !r.scripts[handle].InFooter
	}
	for i := len(order) - 1; i >= 0; i-- {
		reg := r.scripts[order[i]]
		if !inHead[reg.Handle] {
			continue
		}
		for _, dep := range reg.Dependencies {
			if _, ok := inHead[dep]; ok && !inHead[dep] {
				r.logger.Debug("moving footer dependency to head", "handle", dep, "required_by", reg.Handle)
				inHead[dep] = true
			}
		}
	}

	var head, footer strings.Builder
	for _, handle := range order {
		reg := r.scripts[handle]
		tags, err := r.renderScript(*reg, locale)
		if err != nil {
			return Output{}, err
		}
		if inHead[handle] {
			head.WriteString(tags)
		} else {
			footer.WriteString(tags)
		}
	}

	for _, handle := range skipped {
		r.logger.Warn("script not printed, dependency missing", "handle", handle)
	}

	return Output{
		Head:    head.String(),
		Footer:  footer.String(),
		Printed: order,
		Missing: missing,
		Skipped: skipped,
	}, nil
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	printable
	broken
)

// resolve orders the queue so that each handle follows its dependencies.
func (r *Registry) resolve() (order, missing, skipped []string, err error) {
	order = []string{}
	state := make(map[string]visitState)
	missingSeen := make(map[string]bool)

	var visit func(handle string, path []string) (bool, error)
	visit = func(handle string, path []string) (bool, error) {
		switch state[handle] {
		case printable:
			return true, nil
		case broken:
			return false, nil
		case visiting:
			return false, fmt.Errorf("%w: %s", ErrDependencyCycle, strings.Join(append(path, handle), " -> "))
		}

		reg, exists := r.scripts[handle]
		if !exists {
			if !missingSeen[handle] {
				missingSeen[handle] = true
				missing = append(missing, handle)
			}
			state[handle] = broken
			return false, nil
		}

		state[handle] = visiting
		ok := true
		for _, dep := range reg.Dependencies {
			depOK, err := visit(dep, append(path, handle))
			if err != nil {
				return false, err
			}
			ok = ok && depOK
		}

		if !ok {
			state[handle] = broken
			skipped = append(skipped, handle)
			return false, nil
		}

		state[handle] = printable
		order = append(order, handle)
		return true, nil
	}

	for _, handle := range r.queue {
		if _, err := visit(handle, nil); err != nil {
			return nil, nil, nil, err
		}
	}

	return order, missing, skipped, nil
}

func (r *Registry) renderScript(reg Registration, locale string) (string, error) {
	var b strings.Builder
	id := html.EscapeString(reg.Handle)

	if len(reg.Localized) > 0 {
		fmt.Fprintf(&b, "<script id=\"%s-js-extra\">\n", id)
		for _, obj := range reg.Localized {
			data, err := json.Marshal(obj.Data)
			if err != nil {
				return "", fmt.Errorf("failed to encode localized object %s for %s: %w", obj.Name, reg.Handle, err)
			}
			fmt.Fprintf(&b, "var %s = %s;\n", obj.Name, data)
		}
		b.WriteString("</script>\n")
	}

	catalog, err := LoadCatalog(reg, locale, r.baseURL)
	if err != nil {
		return "", err
	}
	if catalog != nil {
		domain, _ := json.Marshal(reg.TextDomain)
		fmt.Fprintf(&b, "<script id=\"%s-js-translations\">\n", id)
		b.WriteString("( function( domain, translations ) {\n")
		b.WriteString("\tvar localeData = translations.locale_data[ domain ] || translations.locale_data.messages;\n")
		b.WriteString("\tlocaleData[\"\"].domain = domain;\n")
		b.WriteString("\twp.i18n.setLocaleData( localeData, domain );\n")
		fmt.Fprintf(&b, "} )( %s, %s );\n", domain, catalog)
		b.WriteString("</script>\n")
	}

	if reg.Src != "" {
		fmt.Fprintf(&b, "<script src=\"%s\" id=\"%s-js\"></script>\n", html.EscapeString(versionedSource(reg.Src, reg.Version)), id)
	}

	return b.String(), nil
}

func versionedSource(src, version string) string {
	if version == "" {
		return src
	}
	sep := "?"
	if strings.Contains(src, "?") {
		sep = "&"
	}
	return src + sep + "ver=" + url.QueryEscape(version)
}
