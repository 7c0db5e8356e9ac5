package resources

import "strings"

// LogsURI is the fixed identifier of the singleton console log resource.
const LogsURI = "logs://logs"

const artifactScheme = "artifact://"

// ArtifactURI returns the resource identifier for a named artifact.
func ArtifactURI(name string) string {
	return artifactScheme + name
}

// ArtifactName extracts the artifact name from an artifact:// identifier.
// Returns false for any other identifier shape.
func ArtifactName(uri string) (string, bool) {
	name, ok := strings.CutPrefix(uri, artifactScheme)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
