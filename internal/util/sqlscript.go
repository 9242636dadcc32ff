package util

import (
	"os"
	"strings"
)

// LoadSQLStatements 读取 SQL 文件并按分号拆分成单条语句
func LoadSQLStatements(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return SplitSQLStatements(string(data)), nil
}

// SplitSQLStatements 按分号拆分 SQL 脚本，忽略空语句
func SplitSQLStatements(script string) []string {
	parts := strings.Split(script, ";")
	var statements []string
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		statements = append(statements, s)
	}
	return statements
}
