package notion

import (
	"encoding/json"
	"strings"

	"github.com/stsh89/hermione/internal/domain"
	"github.com/tidwall/gjson"
)

// Property names of the backup databases.
const (
	PropertyName        = "Name"
	PropertyExternalID  = "External ID"
	PropertyLocation    = "Location"
	PropertyProgram     = "Program"
	PropertyWorkspaceID = "Workspace ID"
)

// Notion rejects text objects longer than this.
const maxTextContent = 2000

// propertyText joins the plain text of a title or rich_text property.
func propertyText(page json.RawMessage, name string) string {
	property := gjson.GetBytes(page, "properties."+name)
	if !property.Exists() {
		return ""
	}

	kind := property.Get("type").String()
	if kind != "title" && kind != "rich_text" {
		return ""
	}

	var b strings.Builder
	for _, part := range property.Get(kind + ".#.plain_text").Array() {
		b.WriteString(part.String())
	}
	return b.String()
}

func pageID(page json.RawMessage) string {
	return gjson.GetBytes(page, "id").String()
}

func workspaceFromPage(page json.RawMessage) (domain.Workspace, bool) {
	id := propertyText(page, PropertyExternalID)
	if id == "" {
		return domain.Workspace{}, false
	}

	return domain.Workspace{
		ID:       id,
		Name:     propertyText(page, PropertyName),
		Location: propertyText(page, PropertyLocation),
	}, true
}

func commandFromPage(page json.RawMessage) (domain.Command, bool) {
	id := propertyText(page, PropertyExternalID)
	if id == "" {
		return domain.Command{}, false
	}

	return domain.Command{
		ID:          id,
		Name:        propertyText(page, PropertyName),
		Program:     propertyText(page, PropertyProgram),
		WorkspaceID: propertyText(page, PropertyWorkspaceID),
	}, true
}

func workspaceProperties(workspace domain.Workspace) map[string]any {
	return map[string]any{
		PropertyName:       titleValue(workspace.Name),
		PropertyExternalID: richTextValue(workspace.ID),
		PropertyLocation:   richTextValue(workspace.Location),
	}
}

func commandProperties(command domain.Command) map[string]any {
	return map[string]any{
		PropertyName:        titleValue(command.Name),
		PropertyExternalID:  richTextValue(command.ID),
		PropertyProgram:     richTextValue(command.Program),
		PropertyWorkspaceID: richTextValue(command.WorkspaceID),
	}
}

func titleValue(text string) map[string]any {
	return map[string]any{"title": textObjects(text)}
}

func richTextValue(text string) map[string]any {
	return map[string]any{"rich_text": textObjects(text)}
}

// textObjects never returns nil so that an empty value clears the property.
func textObjects(text string) []RichText {
	objects := []RichText{}
	runes := []rune(text)
	for start := 0; start < len(runes); start += maxTextContent {
		end := min(start+maxTextContent, len(runes))
		objects = append(objects, RichText{
			Type: "text",
			Text: TextContent{Content: string(runes[start:end])},
		})
	}
	return objects
}

func externalIDFilter(ids []string) any {
	filters := make([]PropertyFilter, 0, len(ids))
	for _, id := range ids {
		filters = append(filters, PropertyFilter{
			Property: PropertyExternalID,
			RichText: &TextFilter{Equals: id},
		})
	}

	if len(filters) == 1 {
		return filters[0]
	}
	return CompoundFilter{Or: filters}
}
