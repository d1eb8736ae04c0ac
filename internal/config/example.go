package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var exampleHeader = []string{
	"devlaunch configuration.",
	"Values left out fall back to the built-in defaults.",
	"App names must match the application bundle name exactly (case-sensitive).",
}

// WriteExample writes a documented default configuration to dest, or to the
// default path when dest is empty. The format follows the file extension.
// It fails with ErrAlreadyExists when dest exists and overwrite is false.
func WriteExample(dest string, overwrite bool) (string, error) {
	if dest == "" {
		dest = configPathFunc()
	}
	if dest == "" {
		return "", fmt.Errorf("cannot determine config directory")
	}

	data, err := Example(formatFor(dest))
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(dest, flags, 0644)
	if err != nil {
		if os.IsExist(err) {
			return dest, fmt.Errorf("%w: %s (use --force to overwrite)", ErrAlreadyExists, dest)
		}
		return "", fmt.Errorf("failed to create config file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return dest, nil
}

// Example renders the default configuration with documentation in the given
// format.
func Example(format string) ([]byte, error) {
	cfg := DefaultConfig()
	switch format {
	case FormatYAML:
		return exampleYAML(cfg)
	case FormatTOML:
		return exampleTOML(cfg)
	default:
		return exampleJSON(cfg)
	}
}

// JSON has no comments, so each key is preceded by a "_<key>" annotation
// that the loader strips.
func exampleJSON(cfg *Config) ([]byte, error) {
	out, err := jsonObject(reflect.ValueOf(*cfg), "", strings.Join(exampleHeader, " ")+" Keys starting with _ are comments.")
	if err != nil {
		return nil, err
	}
	return []byte(out + "\n"), nil
}

func jsonObject(v reflect.Value, indent, header string) (string, error) {
	inner := indent + "  "
	var lines []string
	if header != "" {
		lines = append(lines, inner+`"_comment": `+jsonString(header))
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := tagName(f, "json")
		if comment := f.Tag.Get("comment"); comment != "" {
			lines = append(lines, fmt.Sprintf(`%s"_%s": %s`, inner, name, jsonString(comment)))
		}

		var value string
		if f.Type.Kind() == reflect.Struct {
			obj, err := jsonObject(v.Field(i), inner, "")
			if err != nil {
				return "", err
			}
			value = obj
		} else {
			b, err := json.MarshalIndent(v.Field(i).Interface(), inner, "  ")
			if err != nil {
				return "", fmt.Errorf("failed to encode %s: %w", name, err)
			}
			value = string(b)
		}
		lines = append(lines, fmt.Sprintf(`%s"%s": %s`, inner, name, value))
	}
	return "{\n" + strings.Join(lines, ",\n") + "\n" + indent + "}", nil
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func exampleYAML(cfg *Config) ([]byte, error) {
	var root yaml.Node
	if err := root.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	commentYAML(&root, reflect.TypeOf(*cfg))
	root.HeadComment = yamlComment(strings.Join(exampleHeader, "\n"))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// commentYAML attaches each field's comment tag to its mapping key.
func commentYAML(n *yaml.Node, t reflect.Type) {
	if n.Kind != yaml.MappingNode || t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		f, ok := fieldByTag(t, "yaml", key.Value)
		if !ok {
			continue
		}
		if comment := f.Tag.Get("comment"); comment != "" {
			key.HeadComment = yamlComment(comment)
		}
		commentYAML(value, f.Type)
	}
}

func yamlComment(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "# " + line
	}
	return strings.Join(lines, "\n")
}

func exampleTOML(cfg *Config) ([]byte, error) {
	body, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	var buf bytes.Buffer
	for _, line := range exampleHeader {
		buf.WriteString("# " + line + "\n")
	}
	buf.WriteString("\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// tagName returns the key name a struct tag assigns to f.
func tagName(f reflect.StructField, tag string) string {
	name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
	if name == "" {
		return f.Name
	}
	return name
}

func fieldByTag(t reflect.Type, tag, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() && tagName(f, tag) == name {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

// describe returns the comment tag for every dotted key path.
func describe(t reflect.Type, prefix string, out map[string]string) map[string]string {
	if out == nil {
		out = map[string]string{}
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		key := prefix + tagName(f, "json")
		if comment := f.Tag.Get("comment"); comment != "" {
			out[key] = comment
		}
		if f.Type.Kind() == reflect.Struct {
			describe(f.Type, key+".", out)
		}
	}
	return out
}
