package mcp

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/cadence/internal/domain/activity"
)

const serverInstructions = `cadence records what users do and turns it into engagement metrics.

Workflow:
1) Record actions with log_activity(actor_id, type, detail?, project_id?). Types come from list_event_types.
   A null event_id means the event was dropped (bad input or storage trouble); the call never fails.
2) Browse history with get_actor_events or get_project_events. Pass the returned cursor to get the next page.
   has_more=false means the listing is exhausted.
3) Measure with get_user_activity_metrics(actor_id, timeframe) or get_team_activity_summary(actor_ids, timeframe).
   timeframe is day, week (default, weeks start Sunday) or month.

Docs:
- cadence://docs/event-types
- cadence://docs/metrics
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "cadence://docs/event-types",
		Name:        "event-types",
		Title:       "Event types",
		Description: "Accepted event types and their detail fields",
		Content:     eventTypesDoc(),
	},
	{
		URI:         "cadence://docs/metrics",
		Name:        "metrics",
		Title:       "Metrics",
		Description: "How sessions, time in system and the activity score are derived",
		Content: `# Metrics

Metrics are computed on demand over [window start, now) in the server time zone.

- tasks_completed, milestones_completed, comments_added, documents_uploaded: counts of the matching event types.
- Sessions are rebuilt from PAGE_VISIT events. A gap of up to 30 minutes continues a session; a longer gap
  starts a new one. Every session counts for at least 1 minute.
- time_spent_in_system: total session minutes, rounded.
- pages_visited: distinct page-visit pathnames. Without page visits it falls back to min(20, round(total/3)).
- activity_score: round((2*tasks + 3*milestones + comments + documents) / 3), clamped to 0..10.
`,
	},
}

func eventTypesDoc() string {
	var b strings.Builder
	b.WriteString("# Event types\n\n| type | detail |\n|---|---|\n")
	for _, typ := range activity.EventTypes() {
		b.WriteString("| " + string(typ) + " | " + string(typ.DetailKind()) + " |\n")
	}
	b.WriteString(`
Detail fields by kind:
- task: task_id, title, status
- project: name
- milestone: milestone_id, title
- comment: comment_id, task_id, excerpt
- document: document_id, name, size_bytes
- auth: method, user_agent
- resource: resource_id, name, hours
- page_visit: pathname, title
`)
	return b.String()
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
