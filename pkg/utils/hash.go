package utils

import (
	"crypto/md5"
	"encoding/hex"
)

// HashPassword возвращает MD5-дайджест пароля в нижнем регистре (hex).
// Формат зафиксирован существующей базой учетных записей: поменять
// алгоритм — значит разом отрезать всех пользователей от входа.
func HashPassword(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
