package k8s

import (
	"crypto/sha256"
	"fmt"
	"sort"

	corev1 "k8s.io/api/core/v1"
)

// ChecksumAnnotation is the annotation that carries the content checksum of a rendered Secret.
const ChecksumAnnotation = "dvk8s.stacklok.dev/content-checksum"

// ComputeSecretChecksum computes a SHA256 checksum of the Secret content for change detection.
// Type, data, labels and annotations (except the checksum annotation itself) are included,
// keys in sorted order so the result does not depend on map iteration.
func ComputeSecretChecksum(secret *corev1.Secret) string {
	h := sha256.New()

	h.Write([]byte(secret.Type))

	for _, key := range sortedKeys(secret.Data) {
		h.Write([]byte(key))
		h.Write(secret.Data[key])
	}

	for _, key := range sortedKeys(secret.Labels) {
		h.Write([]byte(key))
		h.Write([]byte(secret.Labels[key]))
	}

	for _, key := range sortedKeys(secret.Annotations) {
		if key == ChecksumAnnotation {
			continue
		}
		h.Write([]byte(key))
		h.Write([]byte(secret.Annotations[key]))
	}

	return fmt.Sprintf("%x", h.Sum(nil))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
