package xmlio

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"NewWorld/modules/kit/errx"
)

// Writer 是带可见性 scope 的 XML 流写入器。
//
// 属性跟在 start element 之后流式写出，所以 start element 先挂起（只写 "<tag"），
// 直到下一个写入动作才补上 ">" 或 "/>"。
// Close 只刷缓冲，不关闭底层流：同一条流可以被多个写入器接力使用。
type Writer struct {
	w           *bufio.Writer
	scope       WriteScope
	stack       []string
	pendingOpen bool
}

func NewWriter(w io.Writer, scope WriteScope) *Writer {
	return &Writer{
		w:     bufio.NewWriter(w),
		scope: scope,
	}
}

func (x *Writer) Scope() WriteScope {
	return x.scope
}

// SetScope 替换 scope 并返回旧值，便于局部切换后还原。
func (x *Writer) SetScope(s WriteScope) WriteScope {
	old := x.scope
	x.scope = s
	return old
}

func (x *Writer) ValidForSave() bool {
	return x.scope.ValidForSave()
}

func (x *Writer) ValidFor(p Identified) bool {
	return x.scope.ValidFor(p)
}

// SeesAllOf 透传 scope 的全量可见谓词。
func (x *Writer) SeesAllOf(p Identified) bool {
	return x.scope.SeesAllOf(p)
}

func (x *Writer) WriteStartDocument() error {
	if _, err := x.w.WriteString(xml.Header); err != nil {
		return errx.ErrIO.WithCause(err)
	}
	return nil
}

// WriteEndDocument 收尾所有未闭合的元素。
func (x *Writer) WriteEndDocument() error {
	for len(x.stack) > 0 {
		if err := x.WriteEndElement(); err != nil {
			return err
		}
	}
	return nil
}

func (x *Writer) WriteStartElement(tag string) error {
	if err := x.closePending(); err != nil {
		return err
	}
	if _, err := x.w.WriteString("<" + tag); err != nil {
		return errx.ErrIO.WithCause(err)
	}
	x.stack = append(x.stack, tag)
	x.pendingOpen = true
	return nil
}

func (x *Writer) WriteEndElement() error {
	if len(x.stack) == 0 {
		return errx.ErrInternal.WithData("reason", "end element without start")
	}
	tag := x.stack[len(x.stack)-1]
	x.stack = x.stack[:len(x.stack)-1]

	if x.pendingOpen {
		x.pendingOpen = false
		if _, err := x.w.WriteString("/>"); err != nil {
			return errx.ErrIO.WithCause(err)
		}
		return nil
	}
	if _, err := x.w.WriteString("</" + tag + ">"); err != nil {
		return errx.ErrIO.WithCause(err)
	}
	return nil
}

// WriteAttribute 写字符串属性；只允许紧跟在 start element 之后。
func (x *Writer) WriteAttribute(name, value string) error {
	if !x.pendingOpen {
		return errx.ErrInternal.WithData("reason", "attribute outside of start element").WithData("attr", name)
	}
	if _, err := x.w.WriteString(" " + name + `="` + escapeAttr(value) + `"`); err != nil {
		return errx.ErrIO.WithCause(err)
	}
	return nil
}

func (x *Writer) WriteIntAttribute(name string, value int) error {
	return x.WriteAttribute(name, strconv.Itoa(value))
}

func (x *Writer) WriteBoolAttribute(name string, value bool) error {
	return x.WriteAttribute(name, strconv.FormatBool(value))
}

func (x *Writer) WriteFloatAttribute(name string, value float64) error {
	return x.WriteAttribute(name, strconv.FormatFloat(value, 'g', -1, 64))
}

// WriteEnumAttribute 按惯例小写输出枚举值。
func (x *Writer) WriteEnumAttribute(name string, value fmt.Stringer) error {
	return x.WriteAttribute(name, strings.ToLower(value.String()))
}

// WriteIDAttribute 写对象引用：只输出被引用对象的 id；空引用不输出。
func (x *Writer) WriteIDAttribute(name string, obj Identified) error {
	if obj == nil || obj.ID() == "" {
		return nil
	}
	return x.WriteAttribute(name, obj.ID())
}

// WriteListElement 把一组成员 id 持久化为单个元素：
// length 属性是个数，x0..x{n-1} 属性是成员 id。
func (x *Writer) WriteListElement(tag string, ids []string) error {
	if err := x.WriteStartElement(tag); err != nil {
		return err
	}
	if err := x.WriteIntAttribute("length", len(ids)); err != nil {
		return err
	}
	for i, id := range ids {
		if err := x.WriteAttribute("x"+strconv.Itoa(i), id); err != nil {
			return err
		}
	}
	return x.WriteEndElement()
}

// Close 刷缓冲。底层流由调用方负责关闭。
func (x *Writer) Close() error {
	if err := x.w.Flush(); err != nil {
		return errx.ErrIO.WithCause(err)
	}
	return nil
}

func (x *Writer) closePending() error {
	if !x.pendingOpen {
		return nil
	}
	x.pendingOpen = false
	if _, err := x.w.WriteString(">"); err != nil {
		return errx.ErrIO.WithCause(err)
	}
	return nil
}

func escapeAttr(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
