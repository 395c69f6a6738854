package render

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/tuumbleweed/xerr"
	"golang.org/x/net/html"

	"funding-report/src/pkg/chart"
)

/*
ExtractFigure reads back the figure embedded in a page produced by HTML.
*/
func ExtractFigure(htmlText string) (figure chart.Figure, e *xerr.Error) {
	document, parseErr := html.Parse(strings.NewReader(htmlText))
	if parseErr != nil {
		e = xerr.NewError(parseErr, "parse report HTML", nil)
		return figure, e
	}

	figureJSON, found := scriptContent(document, FigureDataID)
	if !found {
		e = xerr.NewErrorECOL(errors.New("figure data block not found"), "extract figure from HTML", "id", FigureDataID)
		return figure, e
	}

	unmarshalErr := json.Unmarshal([]byte(figureJSON), &figure)
	if unmarshalErr != nil {
		e = xerr.NewErrorECOL(unmarshalErr, "unmarshal embedded figure", "id", FigureDataID)
		return figure, e
	}

	return figure, e
}

// scriptContent finds <script id="..."> and returns its text.
func scriptContent(node *html.Node, id string) (content string, found bool) {
	if node.Type == html.ElementNode && node.Data == "script" {
		for _, attribute := range node.Attr {
			if attribute.Key == "id" && attribute.Val == id {
				var builder strings.Builder
				for child := node.FirstChild; child != nil; child = child.NextSibling {
					builder.WriteString(child.Data)
				}
				return builder.String(), true
			}
		}
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		content, found = scriptContent(child, id)
		if found {
			return content, found
		}
	}
	return "", false
}
