package ui

const indexTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; color: #1a1a2e; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 0.4rem 0.8rem; border-bottom: 1px solid #e0e0e8; }
th { font-weight: 600; color: #555; }
a { color: #2451b3; text-decoration: none; }
.warn { color: #b32424; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Consumers}}
<table>
<tr><th>Consumer</th><th>Items</th><th>Tokens</th><th>Usage</th><th>Compactions</th><th>Flags</th></tr>
{{range .Consumers}}
<tr>
<td><a href="{{$.BasePath}}/consumers/{{.ConsumerID}}">{{.ConsumerID}}</a></td>
<td>{{.ItemCount}}</td>
<td>{{formatTokens .TotalTokens}} / {{formatTokens .LimitTokens}}</td>
<td>{{formatRatio .UsageRatio}}</td>
<td>{{.CompactionCount}}</td>
<td>
{{if .OverBudget}}<span class="warn">over budget</span>{{end}}
{{if .NeedsCompaction}}<span class="warn">needs compaction</span>{{end}}
{{if .LastArchiveFailure}}<span class="warn" title="{{.LastArchiveFailure}}">archive failure</span>{{end}}
</td>
</tr>
{{end}}
</table>
{{else}}
<p>No consumers yet.</p>
{{end}}
</body>
</html>
`

const consumerTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.State.ConsumerID}} - {{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; color: #1a1a2e; }
.item { border: 1px solid #e0e0e8; border-radius: 6px; padding: 0.8rem 1rem; margin-bottom: 0.8rem; }
.item header { font-size: 0.85rem; color: #666; margin-bottom: 0.4rem; }
.item.summary { background: #f5f7ff; }
.badge { display: inline-block; padding: 0.1rem 0.5rem; border-radius: 4px; background: #eef; margin-right: 0.4rem; }
a { color: #2451b3; text-decoration: none; }
.warn { color: #b32424; }
pre { white-space: pre-wrap; margin: 0; font-family: inherit; }
</style>
</head>
<body>
<p><a href="{{.BasePath}}/">&larr; consumers</a></p>
<h1>{{.State.ConsumerID}}</h1>
<p>
{{formatTokens .State.TotalTokens}} / {{formatTokens .State.LimitTokens}} tokens
({{formatRatio .State.UsageRatio}}), {{.State.ItemCount}} items,
{{.State.CompactionCount}} compactions
{{if .State.OverBudget}}<span class="warn">over budget</span>{{end}}
{{if .State.NeedsCompaction}}<span class="warn">needs compaction</span>{{end}}
</p>
{{if .State.LastArchiveFailure}}
<p class="warn">Last archive failure{{if .State.LastArchiveFailureAt}} at {{formatTime .State.LastArchiveFailureAt}}{{end}}: {{.State.LastArchiveFailure}}</p>
{{end}}
{{range .Items}}
<div class="item{{if .IsSummary}} summary{{end}}">
<header>
<span class="badge">{{.Kind}}</span>
<span class="badge">{{.Priority}}</span>
{{formatTokens .TokenCount}} tokens &middot; {{formatTime .CreatedAt}}
{{if .ArchiveRef}}&middot; archive {{truncate 8 (printf "%s" .ArchiveRef.ID)}}{{end}}
</header>
{{if .IsSummary}}{{markdown .Content}}{{else}}<pre>{{.Content}}</pre>{{end}}
</div>
{{else}}
<p>No context items.</p>
{{end}}
</body>
</html>
`
