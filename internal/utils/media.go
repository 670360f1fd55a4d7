package utils

import "strings"

// NormalizeMediaURL résout un chemin d'image renvoyé par l'API contre le
// préfixe media configuré. Les URLs absolues et les chemins déjà
// enracinés passent tels quels ; "media/..." est juste enraciné.
func NormalizeMediaURL(mediaPrefix, path string) string {
	if path == "" {
		return ""
	}

	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return path
	}
	if strings.HasPrefix(path, "media/") {
		return "/" + path
	}

	if mediaPrefix == "" {
		mediaPrefix = "/media/"
	}
	if !strings.HasSuffix(mediaPrefix, "/") {
		mediaPrefix += "/"
	}
	return mediaPrefix + path
}
