package badger

import (
	"fmt"
	"strings"
)

// Vector records live under "vec:<namespace>:<id>". The default namespace is
// the empty string, so its keys look like "vec::<id>". Record ids may contain
// ':' but namespaces must not, which validateNamespace enforces on every
// public operation.
const vectorKeyPrefix = "vec:"

func makeVectorKey(namespace, id string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", vectorKeyPrefix, namespace, id))
}

func namespacePrefix(namespace string) []byte {
	return []byte(vectorKeyPrefix + namespace + ":")
}

// splitVectorKey returns the namespace and id encoded in a vector key.
func splitVectorKey(key []byte) (namespace, id string, ok bool) {
	rest, found := strings.CutPrefix(string(key), vectorKeyPrefix)
	if !found {
		return "", "", false
	}
	namespace, id, found = strings.Cut(rest, ":")
	if !found {
		return "", "", false
	}
	return namespace, id, true
}

func validateNamespace(namespace string) error {
	if strings.Contains(namespace, ":") {
		return fmt.Errorf("%w: %q", ErrInvalidNamespace, namespace)
	}
	return nil
}
