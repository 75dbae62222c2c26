package plugin

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// paramTag 参数结构体字段上的标签名
//
//	type EnumParams struct {
//	    Name   string `param:"name=name,required=false,default=,description=联合类型名"`
//	    Output string `param:"name=output,required=false,default=,description=输出文件路径"`
//	}
const paramTag = "param"

// commonParams 所有生成器都接受的参数，由 GetOutputPath 处理
var commonParams = []string{"output"}

// paramField 带 param 标签的结构体字段
type paramField struct {
	index []int
	def   ParamDef
}

// paramFields 收集结构体中带 param 标签的导出字段
func paramFields(typ reflect.Type) []paramField {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}
	var fields []paramField
	for _, f := range reflect.VisibleFields(typ) {
		tag, ok := f.Tag.Lookup(paramTag)
		if !ok || !f.IsExported() {
			continue
		}
		if def := parseParamTag(tag); def.Name != "" {
			fields = append(fields, paramField{index: f.Index, def: def})
		}
	}
	return fields
}

// ParseParamsFromStruct 从结构体的 param 标签生成参数定义
func ParseParamsFromStruct(v any) []ParamDef {
	if v == nil {
		return nil
	}
	fields := paramFields(reflect.TypeOf(v))
	if fields == nil {
		return nil
	}
	return lo.Map(fields, func(f paramField, _ int) ParamDef { return f.def })
}

// parseParamTag 格式: name=xxx,required=true,default=xxx,description=xxx
func parseParamTag(tag string) ParamDef {
	var def ParamDef
	for key, value := range splitTag(tag) {
		switch key {
		case "name":
			def.Name = value
		case "required":
			def.Required = cast.ToBool(value)
		case "default":
			def.Default = value
		case "description":
			def.Description = value
		}
	}
	return def
}

// splitTag 分割 key1=value1,key2=value2
// 反斜杠转义下一个字符，可用于在值中包含逗号
func splitTag(tag string) map[string]string {
	result := make(map[string]string)
	var cur strings.Builder
	var key string
	inValue := false

	flush := func() {
		if inValue && key != "" {
			result[key] = cur.String()
		} else if !inValue && cur.Len() > 0 {
			result[cur.String()] = ""
		}
		cur.Reset()
		key, inValue = "", false
	}

	for i := 0; i < len(tag); i++ {
		switch ch := tag[i]; {
		case ch == '\\' && i+1 < len(tag):
			i++
			cur.WriteByte(tag[i])
		case ch == '=' && !inValue:
			key, inValue = cur.String(), true
			cur.Reset()
		case ch == ',':
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return result
}

// ParseAnnotationParams 将注解参数写入 target 指向的结构体
// 未定义的参数名、缺失的必填参数和无法转换的值返回错误
func ParseAnnotationParams(annotation *Annotation, target any, paramDefs []ParamDef) error {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Ptr || val.IsNil() || val.Elem().Kind() != reflect.Struct {
		return nil
	}
	val = val.Elem()
	if annotation.Unclosed {
		return fmt.Errorf("@%s 的括号没有闭合", annotation.Name)
	}

	defs := lo.KeyBy(paramDefs, func(def ParamDef) string { return def.Name })
	if len(paramDefs) > 0 {
		unknown := lo.Filter(lo.Keys(annotation.Params), func(key string, _ int) bool {
			_, ok := defs[key]
			return !ok && !slices.Contains(commonParams, key)
		})
		if len(unknown) > 0 {
			slices.Sort(unknown)
			return fmt.Errorf("未知参数: %s", strings.Join(unknown, ", "))
		}
	}

	for _, f := range paramFields(val.Type()) {
		name := f.def.Name
		value := annotation.Params[name]
		if value == "" {
			if def, ok := defs[name]; ok {
				if def.Required {
					return fmt.Errorf("缺少必填参数 %s", name)
				}
				value = def.Default
			}
		}
		if err := setFieldValue(val.FieldByIndex(f.index), value); err != nil {
			return fmt.Errorf("参数 %s: %w", name, err)
		}
	}
	return nil
}

// setFieldValue 按字段类型转换字符串，空串为零值
func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}
	if value == "" {
		field.SetZero()
		return nil
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64E(value)
		if err != nil {
			return err
		}
		if field.OverflowInt(n) {
			return fmt.Errorf("%s 超出 %s 的范围", value, field.Type())
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := cast.ToUint64E(value)
		if err != nil {
			return err
		}
		if field.OverflowUint(n) {
			return fmt.Errorf("%s 超出 %s 的范围", value, field.Type())
		}
		field.SetUint(n)
	case reflect.Bool:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(value)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("不支持的字段类型 %s", field.Type())
	}
	return nil
}
