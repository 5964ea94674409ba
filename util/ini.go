package util

import (
	"gopkg.in/ini.v1"
)

// Ini loads an ini file and returns its sections, each as a key-value map.
// Keys are kept in file order in the returned key slices.
func Ini(filename string) (map[string]map[string]string, map[string][]string, error) {
	cfg, err := ini.Load(filename)
	if err != nil {
		return nil, nil, err
	}
	var values = make(map[string]map[string]string)
	var order = make(map[string][]string)
	for _, section := range cfg.Sections() {
		var name = section.Name()
		if name == ini.DefaultSection {
			name = ""
		}
		values[name] = section.KeysHash()
		order[name] = section.KeyStrings()
	}
	return values, order, nil
}
