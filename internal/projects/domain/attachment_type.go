package domain

import "strings"

type attachmentKind struct {
	label string
	icon  string
}

var attachmentKinds = map[string]attachmentKind{
	"pdf":          {label: "PDF", icon: "file-pdf"},
	"image":        {label: "Imagem", icon: "image"},
	"imagem":       {label: "Imagem", icon: "image"},
	"video":        {label: "Vídeo", icon: "video"},
	"link":         {label: "Link", icon: "link"},
	"repository":   {label: "Repositório", icon: "code"},
	"repositorio":  {label: "Repositório", icon: "code"},
	"document":     {label: "Documento", icon: "file-text"},
	"documento":    {label: "Documento", icon: "file-text"},
	"spreadsheet":  {label: "Planilha", icon: "table"},
	"planilha":     {label: "Planilha", icon: "table"},
	"presentation": {label: "Apresentação", icon: "presentation"},
	"apresentacao": {label: "Apresentação", icon: "presentation"},
	"archive":      {label: "Arquivo compactado", icon: "archive"},
	"zip":          {label: "Arquivo compactado", icon: "archive"},
}

// AttachmentTypeLabel returns the display label and icon name for an attachment type tag.
func AttachmentTypeLabel(tag string) (label, icon string) {
	if k, ok := attachmentKinds[strings.ToLower(strings.TrimSpace(tag))]; ok {
		return k.label, k.icon
	}
	return "Arquivo", "file"
}
