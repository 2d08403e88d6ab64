package helpers

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	nonWord = regexp.MustCompile(`[^\w ]+`)
	spaces  = regexp.MustCompile(` +`)
)

// Slugify lowercases s, drops everything except word characters and spaces,
// and joins the remaining words with "-".
func Slugify(s string) string {
	s = nonWord.ReplaceAllString(strings.ToLower(s), "")
	return spaces.ReplaceAllString(s, "-")
}

// SerializeToQS encodes data as a query string. Nested maps and slices use
// bracket keys ("user[name]=x", "ids[0]=1"). Keys are emitted in sorted order.
// Nil values, like empty objects, contribute nothing.
func SerializeToQS(data map[string]any, prefix string) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if p := serializeValue(qsKey(prefix, k), data[k]); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "&")
}

func serializeValue(key string, v any) string {
	switch val := v.(type) {
	case map[string]any:
		return SerializeToQS(val, key)
	case map[string]string:
		m := make(map[string]any, len(val))
		for k, s := range val {
			m[k] = s
		}
		return SerializeToQS(m, key)
	case []any:
		parts := make([]string, 0, len(val))
		for i, item := range val {
			if p := serializeValue(qsKey(key, strconv.Itoa(i)), item); p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, "&")
	case []string:
		parts := make([]string, 0, len(val))
		for i, item := range val {
			parts = append(parts, EncodeURIComponent(qsKey(key, strconv.Itoa(i)))+"="+EncodeURIComponent(item))
		}
		return strings.Join(parts, "&")
	case nil:
		return ""
	default:
		return EncodeURIComponent(key) + "=" + EncodeURIComponent(fmt.Sprint(val))
	}
}

func qsKey(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + "[" + k + "]"
}

var uriUnreserved = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes s leaving only letters, digits and -_.!~*'() as is.
func EncodeURIComponent(s string) string {
	return uriUnreserved.Replace(url.QueryEscape(s))
}

// ToAttributes renders attrs as a space separated list of HTML attributes,
// each name prefixed with prefix. Names are emitted in sorted order.
func ToAttributes(attrs map[string]string, prefix string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s%s=%q", prefix, k, html.EscapeString(attrs[k])))
	}
	return strings.Join(parts, " ")
}
