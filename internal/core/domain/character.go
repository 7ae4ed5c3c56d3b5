package domain

import (
	"errors"
	"strings"
)

var ErrCharacterNotFound = errors.New("character not found")
var ErrMissingFields = errors.New("name, realName and universe are required")

// Character is a single catalog record.
type Character struct {
	ID       int64  `json:"id" bson:"id"`
	Name     string `json:"name" bson:"name"`
	RealName string `json:"realName" bson:"realName"`
	Universe string `json:"universe" bson:"universe"`
}

// Complete reports whether every required text field is non-empty.
func (c Character) Complete() bool {
	return c.Name != "" && c.RealName != "" && c.Universe != ""
}

// Matches reports whether q occurs, case-insensitively, in the name, real
// name or universe. An empty q matches everything.
func (c Character) Matches(q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.RealName), q) ||
		strings.Contains(strings.ToLower(c.Universe), q)
}

// CharacterPatch carries the fields of a partial update.
type CharacterPatch struct {
	Name     string
	RealName string
	Universe string
}

// Apply overwrites only the non-empty patch fields. An empty string means
// "not provided", so a patch can never clear a field even though Create
// rejects empty values.
func (p CharacterPatch) Apply(c Character) Character {
	if p.Name != "" {
		c.Name = p.Name
	}
	if p.RealName != "" {
		c.RealName = p.RealName
	}
	if p.Universe != "" {
		c.Universe = p.Universe
	}
	return c
}

// IndexOf returns the position of the character with id, or -1.
func IndexOf(chars []Character, id int64) int {
	for i, c := range chars {
		if c.ID == id {
			return i
		}
	}
	return -1
}
