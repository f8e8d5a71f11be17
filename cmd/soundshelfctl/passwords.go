package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"soundshelf/internal/auth"
	"soundshelf/internal/store"
)

// hashPasswordFile replaces every user's plaintext "password" field with a
// bcrypt "passwordHash" and rewrites the file atomically. Other fields are
// kept as they are. It returns the number of users updated.
func hashPasswordFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}
	var users map[string]map[string]json.RawMessage
	if raw, ok := doc["users"]; ok {
		if err := json.Unmarshal(raw, &users); err != nil {
			return 0, fmt.Errorf("decode users: %w", err)
		}
	}

	ids := make([]string, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	updated := 0
	for _, id := range ids {
		user := users[id]
		raw, ok := user["password"]
		if !ok {
			continue
		}
		var plain string
		if err := json.Unmarshal(raw, &plain); err != nil {
			return 0, fmt.Errorf("user %q: password must be a string: %w", id, err)
		}

		var existing string
		if rawHash, ok := user["passwordHash"]; ok {
			_ = json.Unmarshal(rawHash, &existing)
		}
		if !auth.IsHashed(existing) {
			hash, err := auth.HashPassword(plain)
			if err != nil {
				return 0, fmt.Errorf("user %q: %w", id, err)
			}
			encoded, err := json.Marshal(hash)
			if err != nil {
				return 0, err
			}
			user["passwordHash"] = encoded
		}
		delete(user, "password")
		updated++
	}
	if updated == 0 {
		return 0, nil
	}

	encodedUsers, err := json.Marshal(users)
	if err != nil {
		return 0, fmt.Errorf("encode users: %w", err)
	}
	doc["users"] = encodedUsers
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", path, err)
	}

	if err := store.WriteFileAtomic(path, out); err != nil {
		return 0, err
	}
	return updated, nil
}
