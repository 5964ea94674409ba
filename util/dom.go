package util

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrNilNode = errors.New("HTML node is nil")

// CreateDomTree reads from a reader and parses the content into an html.Node.
// It returns a body node.
func CreateDomTree(bodyReader io.Reader) (*html.Node, error) {

	parsed, err := html.ParseFragment(
		io.MultiReader(
			strings.NewReader("<body>"),
			bodyReader,
			strings.NewReader("</body>"),
		),
		&html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Html,
			Data:     "html",
		},
	)

	if err == nil {
		return parsed[1], nil // [0] is head, [1] is body, we want the body node
	} else {
		return nil, err
	}
}

func renderDomTree(root *html.Node, buf *bytes.Buffer) error {
	if root == nil || buf == nil {
		return nil
	}
	for node := root.FirstChild; node != nil; node = node.NextSibling {
		err := html.Render(buf, node)
		if err != nil {
			return err
		}
	}
	return nil
}

// ForEachDomNode calls a task func for each node, including root.
// It recurses (pre-order) if and only if the task returns true.
//
// The task might remove the node, so its NextSibling is read before.
func ForEachDomNode(root *html.Node, task func(*html.Node) (bool, error)) error {

	if root == nil {
		return ErrNilNode
	}

	recurse, err := task(root)
	if err != nil {
		return err
	}
	if !recurse {
		return nil
	}

	for child := root.FirstChild; child != nil; {

		nextSiblingBackup := child.NextSibling // backup because the task might modify child.NextSibling

		err = ForEachDomNode(child, task)
		if err != nil {
			return err
		}

		child = nextSiblingBackup
	}

	return nil
}

// SanitizeHTML removes active content from an HTML fragment: script, style and embedding elements, event handler attributes and javascript urls.
func SanitizeHTML(s string) (string, error) {

	if strings.TrimSpace(s) == "" {
		return "", nil
	}

	root, err := CreateDomTree(strings.NewReader(s))
	if err != nil {
		return "", err
	}

	err = ForEachDomNode(root, func(n *html.Node) (bool, error) {

		if n.Type != html.ElementNode || n == root {
			return true, nil
		}

		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Iframe, atom.Object, atom.Embed:
			n.Parent.RemoveChild(n)
			return false, nil
		}

		var attrs = n.Attr[:0]
		for _, a := range n.Attr {
			var key = strings.ToLower(a.Key)
			if strings.HasPrefix(key, "on") {
				continue
			}
			if (key == "href" || key == "src") && strings.HasPrefix(strings.ToLower(strings.TrimSpace(a.Val)), "javascript:") {
				continue
			}
			attrs = append(attrs, a)
		}
		n.Attr = attrs

		return true, nil
	})
	if err != nil {
		return "", err
	}

	var buf = &bytes.Buffer{}
	if err := renderDomTree(root, buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
