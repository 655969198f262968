package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Player keys accepted by SetValue and GetValue next to the settings keys.
const (
	KeyPlayerName = "player.name"
	KeyPlayerUUID = "player.uuid"
)

// SetValue sets a configuration value by key. Keys are the YAML names of the
// settings (e.g. max_passes, initial_backoff) plus player.name and player.uuid.
// Durations use time.ParseDuration syntax. The result is validated.
func (c *Config) SetValue(key, value string) error {
	switch key {
	case KeyPlayerName:
		c.Player.Name = value
		return nil
	case KeyPlayerUUID:
		c.Player.UUID = value
		return nil
	}

	field, ok := settingsField(reflect.ValueOf(&c.Settings).Elem(), key)
	if !ok {
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	previous := c.Settings
	if err := setField(field, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if key == "os" {
		c.applyDefaults()
	}
	if err := c.Validate(); err != nil {
		c.Settings = previous
		return err
	}
	return nil
}

// GetValue returns the value of key as a string.
func (c *Config) GetValue(key string) (string, error) {
	switch key {
	case KeyPlayerName:
		return c.Player.Name, nil
	case KeyPlayerUUID:
		return c.Player.UUID, nil
	}
	field, ok := settingsField(reflect.ValueOf(c.Settings), key)
	if !ok {
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
	return formatField(field), nil
}

// Keys returns every key SetValue accepts, sorted.
func (c *Config) Keys() []string {
	keys := []string{KeyPlayerName, KeyPlayerUUID}
	t := reflect.TypeOf(c.Settings)
	for i := 0; i < t.NumField(); i++ {
		if key := yamlKey(t.Field(i)); key != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// ToMap returns every key with its current value.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)
	for _, key := range c.Keys() {
		v, _ := c.GetValue(key)
		result[key] = v
	}
	return result
}

func yamlKey(f reflect.StructField) string {
	tag := f.Tag.Get("yaml")
	if tag == "" || tag == "-" {
		return ""
	}
	return strings.Split(tag, ",")[0]
}

func settingsField(v reflect.Value, key string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if yamlKey(t.Field(i)) == key {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func setField(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int64:
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(n))
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("unsupported setting type %s", field.Type())
	}
	return nil
}

func formatField(field reflect.Value) string {
	if field.Type() == durationType {
		return time.Duration(field.Int()).String()
	}
	switch field.Kind() {
	case reflect.Int, reflect.Int64:
		return strconv.FormatInt(field.Int(), 10)
	case reflect.Float64:
		return strconv.FormatFloat(field.Float(), 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", field.Interface())
	}
}
