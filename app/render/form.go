// Package render writes the page that posts a boleto submission to the bank.
package render

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-boleto/app/boleto"
)

const (
	DefaultAction        = "https://mpag.bb.com.br/site/mpag/"
	DefaultRedirectDelay = 5 * time.Second
	formName             = "redirecionar_via_post"
)

var ErrMissingAction = errors.New("form action is required")

var pageTemplate = template.Must(template.New("boleto").Parse(`<!DOCTYPE html>
<html><head><meta charset="{{.Charset}}"><title>Gerando boleto</title>
<script>setTimeout(function(){document.getElementById('redirecionar').style.display='inline';document.getElementById('gerando').style.display='none';},{{.DelayMillis}});</script>
</head><body onload="document.forms['` + formName + `'].submit();">
<p id="gerando">Gerando boleto...</p>
<form name="` + formName + `" method="post" action="{{.Action}}">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<input type="submit" id="redirecionar" style="display:none" value="Clique aqui para gerar o boleto">
</form></body></html>
`))

type pageData struct {
	Charset     string
	Action      string
	DelayMillis int64
	Fields      boleto.Submission
}

// FormRenderer renders the auto-submitting form for a submission.
type FormRenderer struct {
	action        string
	encoder       Encoder
	redirectDelay time.Duration
}

func NewFormRenderer(action string, encoder Encoder, redirectDelay time.Duration) *FormRenderer {
	if encoder == nil {
		encoder = ISO88591()
	}
	if redirectDelay <= 0 {
		redirectDelay = DefaultRedirectDelay
	}
	return &FormRenderer{
		action:        strings.TrimSpace(action),
		encoder:       encoder,
		redirectDelay: redirectDelay,
	}
}

func (r *FormRenderer) Action() string {
	return r.action
}

func (r *FormRenderer) Charset() string {
	return r.encoder.Name()
}

func (r *FormRenderer) ContentType() string {
	return "text/html; charset=" + r.encoder.Name()
}

// Render writes the page to w. Values are escaped as HTML attributes before the
// page is converted to the renderer's charset.
func (r *FormRenderer) Render(w io.Writer, sub boleto.Submission) error {
	if r.action == "" {
		return ErrMissingAction
	}

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Charset:     r.encoder.Name(),
		Action:      r.action,
		DelayMillis: r.redirectDelay.Milliseconds(),
		Fields:      sub,
	})
	if err != nil {
		return err
	}

	page, err := r.encoder.Encode(buf.String())
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, page)
	return err
}
