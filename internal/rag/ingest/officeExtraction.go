package ingest

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
)

// A pptx file is a zip package of xml parts. Parts are located through the relationship
// files, never by guessing file names.

const maxPartBytes = 64 << 20

type relationships struct {
	Items []struct {
		Id     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type xmlText struct {
	Value string `xml:",chardata"`
}

type openPackage struct {
	files map[string]*zip.File
}

func openOfficePackage(r *zip.Reader) *openPackage {
	files := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		files[f.Name] = f
	}
	return &openPackage{files: files}
}

func (p *openPackage) decode(name string, v any) error {
	f, ok := p.files[name]
	if !ok {
		return fmt.Errorf("package part %s missing", name)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	if err := xml.NewDecoder(io.LimitReader(rc, maxPartBytes)).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (p *openPackage) has(name string) bool {
	_, ok := p.files[name]
	return ok
}

// relTargets maps relationship ids to package paths. Targets are relative to the
// directory owning the rels file unless they start with '/'.
func (p *openPackage) relTargets(relsPath string, baseDir string) (map[string]string, error) {
	var rels relationships
	if err := p.decode(relsPath, &rels); err != nil {
		return nil, err
	}
	targets := make(map[string]string, len(rels.Items))
	for _, rel := range rels.Items {
		if strings.HasPrefix(rel.Target, "/") {
			targets[rel.Id] = strings.TrimPrefix(rel.Target, "/")
			continue
		}
		targets[rel.Id] = path.Clean(path.Join(baseDir, rel.Target))
	}
	return targets, nil
}

type pptxPresentation struct {
	Slides []struct {
		RId string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

type pptxParagraph struct {
	Runs []xmlText `xml:"r>t"`
}

type pptxShape struct {
	Paragraphs []pptxParagraph `xml:"txBody>p"`
}

type pptxSlide struct {
	Shapes []pptxShape `xml:"cSld>spTree>sp"`
}

// extractPPTX yields one page per slide, numbered from 1 in presentation order.
// Each text-bearing shape contributes its paragraphs.
func extractPPTX(filePath string) ([]corpusModel.Page, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open pptx: %w", err)
	}
	defer zr.Close()

	pkg := openOfficePackage(&zr.Reader)

	var pres pptxPresentation
	if err := pkg.decode("ppt/presentation.xml", &pres); err != nil {
		return nil, fmt.Errorf("failed to read pptx presentation: %w", err)
	}
	targets, err := pkg.relTargets("ppt/_rels/presentation.xml.rels", "ppt")
	if err != nil {
		return nil, fmt.Errorf("failed to read pptx relationships: %w", err)
	}

	var pages []corpusModel.Page
	for i, s := range pres.Slides {
		target, ok := targets[s.RId]
		if !ok {
			extractLogger().Warn("pptx slide without relationship", "slide", i+1)
			continue
		}
		var slide pptxSlide
		if err := pkg.decode(target, &slide); err != nil {
			return nil, fmt.Errorf("failed to read slide %d: %w", i+1, err)
		}

		var lines []string
		for _, shape := range slide.Shapes {
			if text := shapeText(shape); text != "" {
				lines = append(lines, text)
			}
		}
		slideNumber := i + 1
		pages = append(pages, corpusModel.Page{
			Text:       strings.Join(lines, "\n"),
			PageNumber: &slideNumber,
		})
	}
	return pages, nil
}

func shapeText(shape pptxShape) string {
	if len(shape.Paragraphs) == 0 {
		return ""
	}
	paragraphs := make([]string, 0, len(shape.Paragraphs))
	for _, p := range shape.Paragraphs {
		var sb strings.Builder
		for _, r := range p.Runs {
			sb.WriteString(r.Value)
		}
		paragraphs = append(paragraphs, sb.String())
	}
	text := strings.Join(paragraphs, "\n")
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return text
}
