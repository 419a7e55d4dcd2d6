package persona

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Theme 是一个展示主题：绑定一种人格与一个打分类别。
// 同一人格通常配有多个主题，一次推荐请求按主题逐个出 Top-K 列表。
type Theme struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Emoji       string `yaml:"emoji" json:"emoji"`
	Category    string `yaml:"category" json:"category"`
	Persona     string `yaml:"mbti" json:"mbti"`
}

// ThemeSet 是主题目录，按人格过滤。
type ThemeSet struct {
	Themes []Theme
}

// LoadThemes 从 YAML 或 JSON 文件加载主题目录（按扩展名区分）。
func LoadThemes(path string) (*ThemeSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read themes: %w", err)
	}

	var themes []Theme
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &themes); err != nil {
			return nil, fmt.Errorf("parse themes yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &themes); err != nil {
			return nil, fmt.Errorf("parse themes json: %w", err)
		}
	}
	return &ThemeSet{Themes: themes}, nil
}

// ForPersona 返回某个人格的全部主题；该人格没有配置主题时回退到
// DefaultPersona 的主题（与未知人格的打分回退保持一致）。
func (s *ThemeSet) ForPersona(code string) []Theme {
	matched := s.filter(normalize(code))
	if len(matched) == 0 {
		matched = s.filter(DefaultPersona)
	}
	return matched
}

func (s *ThemeSet) filter(code string) []Theme {
	out := make([]Theme, 0, 4)
	for _, t := range s.Themes {
		if normalize(t.Persona) == code {
			out = append(out, t)
		}
	}
	return out
}
