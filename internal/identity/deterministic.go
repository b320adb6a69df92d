package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// DocumentUUID derives the identity for an indexed document from its
// slash-normalised corpus path.
func DocumentUUID(path string) uuid.UUID {
	return UUID("go-corpus:document:" + strings.TrimSpace(path))
}

// TopicUUID derives the identity for a topic bucket from its key.
func TopicUUID(topicKey string) uuid.UUID {
	return UUID("go-corpus:topic:" + strings.ToLower(strings.TrimSpace(topicKey)))
}

// LinkUUID derives the identity for a link occurrence within a document.
func LinkUUID(documentID uuid.UUID, target string, line int) uuid.UUID {
	return UUID("go-corpus:link:" + documentID.String() + ":" + strings.TrimSpace(target) + ":" + strconv.Itoa(line))
}
