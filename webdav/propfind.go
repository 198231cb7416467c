package webdav

import (
	"encoding/xml"
	"io"
	"net/http"
	"strconv"

	"github.com/worldiety/vfsdav/vfs"
)

// davNS is the WebDAV XML namespace every element below lives in.
const davNS = "DAV:"

// fixedLastModified is reported for every resource: this server never
// tracks modification time.
const fixedLastModified = "Thu, 01 Jan 1970 00:00:00 GMT"

var supportedProps = []string{
	"displayname",
	"getcontentlength",
	"getcontenttype",
	"resourcetype",
	"getlastmodified",
}

type multistatus struct {
	XMLName   xml.Name `xml:"DAV: multistatus"`
	Responses []response
}

type response struct {
	XMLName  xml.Name `xml:"DAV: response"`
	Href     string   `xml:"DAV: href"`
	Propstat propstat `xml:"DAV: propstat"`
}

type propstat struct {
	XMLName xml.Name `xml:"DAV: propstat"`
	Prop    prop     `xml:"DAV: prop"`
	Status  string   `xml:"DAV: status"`
}

type prop struct {
	XMLName          xml.Name      `xml:"DAV: prop"`
	DisplayName      *string       `xml:"DAV: displayname"`
	GetContentLength *string       `xml:"DAV: getcontentlength"`
	GetContentType   *string       `xml:"DAV: getcontenttype"`
	ResourceType     *resourceType `xml:"DAV: resourcetype"`
	GetLastModified  *string       `xml:"DAV: getlastmodified"`
}

type resourceType struct {
	Collection *struct{} `xml:"DAV: collection"`
}

// propfindRequest mirrors the subset of a PROPFIND body this server
// understands: an allprop request, or an explicit prop list.
type propfindRequest struct {
	AllProp *struct{}     `xml:"DAV: allprop"`
	Prop    *propfindProp `xml:"DAV: prop"`
}

type propfindProp struct {
	Any []xml.Name `xml:",any"`
}

// parsePropfindBody returns nil (meaning allprop) when body is empty or
// fails to parse as XML, or the list of requested property local names.
// Malformed bodies are deliberately treated as if they were absent, so a
// client does not have to fight the server over body parsing.
func parsePropfindBody(body []byte) []string {
	if len(body) == 0 {
		return nil
	}

	var req propfindRequest
	if err := xml.Unmarshal(body, &req); err != nil {
		return nil
	}
	if req.AllProp != nil || req.Prop == nil {
		return nil
	}

	names := make([]string, 0, len(req.Prop.Any))
	for _, n := range req.Prop.Any {
		names = append(names, n.Local)
	}
	return names
}

func wanted(requested []string, name string) bool {
	if requested == nil {
		return true
	}
	for _, r := range requested {
		if r == name {
			return true
		}
	}
	return false
}

// buildResponse renders one DAV:response element for path/info, limited
// to the requested property names (nil means every supported property).
func buildResponse(path vfs.Path, info vfs.ResourceInfo, requested []string) response {
	var p prop

	displayName := path.Name()
	if path.IsRoot() {
		displayName = "/"
	}

	for _, name := range supportedProps {
		if !wanted(requested, name) {
			continue
		}
		switch name {
		case "displayname":
			p.DisplayName = &displayName
		case "getcontentlength":
			if !info.IsDir {
				size := strconv.FormatInt(info.Size, 10)
				p.GetContentLength = &size
			}
		case "getcontenttype":
			if !info.IsDir {
				ct := info.ContentType
				if ct == "" {
					ct = vfs.DefaultContentType
				}
				p.GetContentType = &ct
			}
		case "resourcetype":
			rt := &resourceType{}
			if info.IsDir {
				rt.Collection = &struct{}{}
			}
			p.ResourceType = rt
		case "getlastmodified":
			lm := fixedLastModified
			p.GetLastModified = &lm
		}
	}

	return response{
		Href: path.URLEncode(info.IsDir),
		Propstat: propstat{
			Prop:   p,
			Status: "HTTP/1.1 200 OK",
		},
	}
}

func (h *Handler) handlePropfind(w http.ResponseWriter, r *http.Request) {
	path, _, err := parseRequest(r)
	if err != nil {
		writeBody(w, http.StatusBadRequest, "text/plain; charset=utf-8", []byte("Bad Request"), true)
		return
	}

	depth := r.Header.Get("Depth")
	if depth == "" {
		depth = "1"
	}

	var body []byte
	if r.ContentLength > 0 {
		body, _ = io.ReadAll(r.Body)
	}
	requested := parsePropfindBody(body)

	info, err := h.backend.Info(path)
	if err != nil {
		sendError(w, err, true)
		return
	}

	responses := []response{buildResponse(path, info, requested)}

	if info.IsDir && depth != "0" {
		children, err := h.backend.List(path)
		if err != nil {
			sendError(w, err, true)
			return
		}
		for _, name := range children {
			childPath := path.Child(name)
			childInfo, err := h.backend.Info(childPath)
			if err != nil {
				continue
			}
			responses = append(responses, buildResponse(childPath, childInfo, requested))
			if depth == "infinity" && childInfo.IsDir {
				h.propfindRecurse(childPath, requested, &responses)
			}
		}
	}

	out, err := xml.Marshal(multistatus{Responses: responses})
	if err != nil {
		sendError(w, vfs.Backend(path, "encode multistatus: "+err.Error(), err), true)
		return
	}
	xmlBody := append([]byte(xml.Header), out...)
	writeBody(w, http.StatusMultiStatus, "application/xml; charset=utf-8", xmlBody, true)
}

// propfindRecurse appends a response for every descendant of dir,
// skipping any subtree an Info/List call fails on rather than aborting
// the whole multistatus.
func (h *Handler) propfindRecurse(dir vfs.Path, requested []string, responses *[]response) {
	children, err := h.backend.List(dir)
	if err != nil {
		return
	}
	for _, name := range children {
		childPath := dir.Child(name)
		childInfo, err := h.backend.Info(childPath)
		if err != nil {
			continue
		}
		*responses = append(*responses, buildResponse(childPath, childInfo, requested))
		if childInfo.IsDir {
			h.propfindRecurse(childPath, requested, responses)
		}
	}
}
