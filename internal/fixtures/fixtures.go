// Package fixtures 提供演示数据 (管理员、选民、候选人) 的 YAML 定义。
package fixtures

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Account 是一个演示账号
type Account struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Candidate 是一个演示候选人
type Candidate struct {
	Name        string `yaml:"name"`
	Party       string `yaml:"party"`
	Description string `yaml:"description"`
}

// Fixtures 是一组演示数据
type Fixtures struct {
	Admins     []Account   `yaml:"admins"`
	Voters     []Account   `yaml:"voters"`
	Candidates []Candidate `yaml:"candidates"`
}

// Default 返回内置的演示数据
func Default() *Fixtures {
	f, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded fixtures are invalid: %v", err))
	}
	return f
}

// Load 从 YAML 文件读取演示数据
func Load(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	return f, nil
}

// Parse 解析并校验 YAML 内容
func Parse(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	for _, a := range append(append([]Account{}, f.Admins...), f.Voters...) {
		if a.Username == "" || a.Password == "" {
			return nil, fmt.Errorf("account entries need both username and password")
		}
	}
	for _, c := range f.Candidates {
		if c.Name == "" {
			return nil, fmt.Errorf("candidate entries need a name")
		}
	}
	return &f, nil
}
