package utils

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GetUUID 生成会话id
func GetUUID() string {
	u1, err := uuid.NewUUID()
	if err != nil {
		logrus.Errorf("[utils] generate uuid fail, err = %v", err)
		return uuid.NewString()
	}
	return u1.String()
}

// ShortID 截取uuid前8位，用于日志前缀
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
