package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB 对象类型的JSONB字段，如连接配置
type JSONB map[string]interface{}

// JSONBArray 对象数组类型的JSONB字段，如通知渠道列表
type JSONBArray []JSONB

// JSONBStringArray 字符串数组类型的JSONB字段，如通知接收人列表
type JSONBStringArray []string

// scanBytes 取出数据库驱动返回的原始JSON字节
func scanBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("JSONB扫描失败: 期望[]byte或string，实际为%T", value)
	}
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	data, err := scanBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, j)
}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// GetString 读取字符串字段，缺失或类型不符时返回空串
func (j JSONB) GetString(key string) string {
	value, _ := j[key].(string)
	return value
}

func (j *JSONBArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	data, err := scanBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, j)
}

func (j JSONBArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	data, err := scanBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, j)
}

func (j JSONBStringArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}
