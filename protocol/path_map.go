package protocol

import (
	"encoding/json"
	"path/filepath"
)

// PathMapping 本地路径前缀与调试目标路径前缀的映射
type PathMapping struct {
	LocalPrefix  string
	RemotePrefix string
}

// NewPathMapping 本地路径为相对路径时基于basePath转换为绝对路径，并做规范化处理
func NewPathMapping(localPrefix, remotePrefix, basePath string) PathMapping {
	if !filepath.IsAbs(localPrefix) {
		localPrefix = filepath.Join(basePath, localPrefix)
	}
	return PathMapping{
		LocalPrefix:  filepath.Clean(localPrefix),
		RemotePrefix: remotePrefix,
	}
}

// MarshalJSON 发送给调试目标时格式为[remote, local]
func (p PathMapping) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.RemotePrefix, p.LocalPrefix})
}

func (p *PathMapping) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	p.RemotePrefix, p.LocalPrefix = pair[0], pair[1]
	return nil
}
