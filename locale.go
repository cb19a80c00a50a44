package rowan

// Locale returns the active locale code, or "" if none was set.
func (w *World) Locale() string { return w.locale }

// SetLocale switches the active locale and emits LocaleChanged with the
// new code. Setting the current locale again is a no-op.
func (w *World) SetLocale(code string) {
	if w.locale == code {
		return
	}
	w.locale = code
	w.LocaleChanged.Emit(code)
}

// AddTranslations merges entries into the table for a locale. Existing
// keys are overwritten.
func (w *World) AddTranslations(locale string, entries map[string]string) {
	if w.translations == nil {
		w.translations = make(map[string]map[string]string)
	}
	table := w.translations[locale]
	if table == nil {
		table = make(map[string]string)
		w.translations[locale] = table
	}
	for k, v := range entries {
		table[k] = v
	}
}

// Tr translates key in the active locale. Unknown keys (and unknown
// locales) return the key itself, so untranslated text stays readable.
func (w *World) Tr(key string) string {
	if table, ok := w.translations[w.locale]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	return key
}
