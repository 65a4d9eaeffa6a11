package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID gera identificadores curtos para conexões e statements do warehouse
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, 12)
}

// MustGenerateID é usado onde um id vazio é aceitável em caso de falha
func MustGenerateID() string {
	id, err := GenerateID()
	if err != nil {
		return ""
	}
	return id
}
