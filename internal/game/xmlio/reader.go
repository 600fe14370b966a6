package xmlio

import (
	"encoding/xml"
	"io"
	"strconv"

	"go.uber.org/zap"

	"NewWorld/modules/kit/errx"
	"NewWorld/modules/kit/logx"
)

// Lookup 把属性里的对象 id 解析为既有的游戏对象。
type Lookup interface {
	Lookup(id string) any
}

// Reader 是与 Writer 对称的解码器。
//
// 解析失败的属性不会让整次读取失败：记一条告警并返回文档化的默认值。
// Close 会关闭底层流（与写侧相反）。
type Reader struct {
	dec    *xml.Decoder
	src    io.Reader
	lookup Lookup
	log    logx.Logger

	tag   string
	attrs map[string]string
}

func NewReader(r io.Reader, lookup Lookup, log logx.Logger) *Reader {
	if log == nil {
		log = logx.NewZapLogger(nil)
	}
	return &Reader{
		dec:    xml.NewDecoder(r),
		src:    r,
		lookup: lookup,
		log:    log,
	}
}

// FindStart 前进到下一个 start element（通常是根元素），返回其标签。
func (x *Reader) FindStart() (string, error) {
	for {
		tok, err := x.dec.Token()
		if err != nil {
			return "", errx.ErrIO.WithCause(err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			x.setCurrent(start)
			return x.tag, nil
		}
	}
}

// NextChild 前进到当前元素的下一个子元素。
// 返回 ("", false, nil) 表示当前元素已读完（消费掉了它的 end element）。
// 调用方对每个子元素要么完整读完（属性 + 自己的子元素循环），要么调用 Skip 丢弃。
func (x *Reader) NextChild() (string, bool, error) {
	for {
		tok, err := x.dec.Token()
		if err != nil {
			return "", false, errx.ErrIO.WithCause(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			x.setCurrent(t)
			return x.tag, true, nil
		case xml.EndElement:
			return "", false, nil
		}
	}
}

// Skip 丢弃当前子元素的整棵子树。
func (x *Reader) Skip() error {
	if err := x.dec.Skip(); err != nil {
		return errx.ErrIO.WithCause(err)
	}
	return nil
}

// Tag 返回当前元素的标签。
func (x *Reader) Tag() string {
	return x.tag
}

// Attr 读字符串属性，缺失时返回默认值。
func (x *Reader) Attr(name, def string) string {
	if v, ok := x.attrs[name]; ok {
		return v
	}
	return def
}

// HasAttr 判断属性是否出现。
func (x *Reader) HasAttr(name string) bool {
	_, ok := x.attrs[name]
	return ok
}

func (x *Reader) IntAttr(name string, def int) int {
	v, ok := x.attrs[name]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		x.log.Warn("bad int attribute, using default",
			zap.String("tag", x.tag), zap.String("attr", name), zap.String("value", v))
		return def
	}
	return n
}

func (x *Reader) BoolAttr(name string, def bool) bool {
	v, ok := x.attrs[name]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		x.log.Warn("bad bool attribute, using default",
			zap.String("tag", x.tag), zap.String("attr", name), zap.String("value", v))
		return def
	}
	return b
}

func (x *Reader) FloatAttr(name string, def float64) float64 {
	v, ok := x.attrs[name]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		x.log.Warn("bad float attribute, using default",
			zap.String("tag", x.tag), zap.String("attr", name), zap.String("value", v))
		return def
	}
	return f
}

// Resolve 把属性值当作对象 id，经 Lookup 解析；缺失或未注册返回 nil。
func (x *Reader) Resolve(name string) any {
	id, ok := x.attrs[name]
	if !ok || id == "" || x.lookup == nil {
		return nil
	}
	return x.lookup.Lookup(id)
}

// ListElement 读取 WriteListElement 写出的 id 列表，并消费掉该子元素。
func (x *Reader) ListElement() ([]string, error) {
	n := x.IntAttr("length", 0)
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		key := "x" + strconv.Itoa(i)
		v, ok := x.attrs[key]
		if !ok {
			x.log.Warn("list element member missing",
				zap.String("tag", x.tag), zap.String("attr", key))
			continue
		}
		ids = append(ids, v)
	}
	if err := x.Skip(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Close 关闭底层流（若可关闭）。
func (x *Reader) Close() error {
	if c, ok := x.src.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return errx.ErrIO.WithCause(err)
		}
	}
	return nil
}

func (x *Reader) setCurrent(start xml.StartElement) {
	x.tag = start.Name.Local
	x.attrs = make(map[string]string, len(start.Attr))
	for _, a := range start.Attr {
		x.attrs[a.Name.Local] = a.Value
	}
}
