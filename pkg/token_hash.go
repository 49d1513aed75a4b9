package pkg

import "golang.org/x/crypto/bcrypt"

const TokenHashCost = 12

// HashToken produces the bcrypt hash stored in config/env for admin tokens.
func HashToken(token string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	return BytesToString(bytes), err
}

func CheckTokenHash(token, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}
