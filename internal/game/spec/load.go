package spec

import (
	"os"

	"gopkg.in/yaml.v3"

	"NewWorld/modules/kit/errx"
)

// Load 从 YAML 文档解析规则数据。
func Load(data []byte) (*Specification, error) {
	s := &Specification{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, errx.NewBiz("PARSE_ERROR", "规则数据解析失败").WithCause(err)
	}
	if err := s.finish(); err != nil {
		return nil, errx.NewBiz("PARSE_ERROR", "规则数据不完整").WithCause(err)
	}
	return s, nil
}

// LoadFile 读取规则数据文件。
func LoadFile(path string) (*Specification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errx.ErrIO.WithData("path", path).WithCause(err)
	}
	return Load(data)
}
