/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: templates.go
Description: HTML template for the Akaylee L* run report: run summary cards, resource bound
flags, the learned transition table, counterexamples and a chart of their lengths.
*/

package reporting

// reportTemplate is the HTML template for a run report
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - Akaylee L* Report</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            color: #333;
        }

        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }

        .panel {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 20px;
            padding: 30px;
            margin-bottom: 30px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
        }

        .header { text-align: center; }
        .header h1 { color: #4a5568; font-size: 2.5rem; margin-bottom: 10px; font-weight: 700; }
        .header p { color: #718096; }

        .stats-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 20px;
            margin-bottom: 30px;
        }

        .stat-card {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 15px;
            padding: 20px;
            text-align: center;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
        }
        .stat-card .value { font-size: 2rem; font-weight: 700; color: #2d3748; }
        .stat-card .label { color: #718096; font-size: 0.9rem; text-transform: uppercase; }

        .badge { display: inline-block; padding: 4px 12px; border-radius: 12px; font-weight: 600; }
        .badge.ok { background: #c6f6d5; color: #22543d; }
        .badge.bounded { background: #fefcbf; color: #744210; }

        h2 { color: #4a5568; margin-bottom: 20px; }

        table { width: 100%; border-collapse: collapse; }
        th, td { padding: 10px; border-bottom: 1px solid #e2e8f0; text-align: left; font-family: monospace; }
        th { background: #edf2f7; }
        tr.hole td { color: #a0aec0; font-style: italic; }
        tr.initial td:first-child::before { content: "→ "; }
    </style>
</head>
<body>
    <div class="container">
        <div class="panel header">
            <h1>{{.Title}}</h1>
            <p>Run {{.RunID}} · {{.Translator}} translator · {{.Variant}} variant · generated {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</p>
            <p style="margin-top: 15px;">
                {{if .Bounded}}<span class="badge bounded">stopped: {{.StopReason}}</span>{{else}}<span class="badge ok">{{.StopReason}}</span>{{end}}
            </p>
        </div>

        <div class="stats-grid">
            <div class="stat-card"><div class="value">{{.StateCount}}</div><div class="label">States{{if .HasHole}} + hole{{end}}</div></div>
            <div class="stat-card"><div class="value">{{.Rounds}}</div><div class="label">Rounds</div></div>
            <div class="stat-card"><div class="value">{{.MembershipQueries}}</div><div class="label">Membership Queries</div></div>
            <div class="stat-card"><div class="value">{{.EquivalenceQueries}}</div><div class="label">Equivalence Queries</div></div>
            <div class="stat-card"><div class="value">{{.CacheHits}}</div><div class="label">Cache Hits</div></div>
            <div class="stat-card"><div class="value">{{.Inconsistencies}}</div><div class="label">Inconsistencies</div></div>
            <div class="stat-card"><div class="value">{{.Duration}}</div><div class="label">Duration</div></div>
        </div>

        {{if .Bounded}}
        <div class="panel">
            <h2>Resource Bounds</h2>
            <table>
                <tr><th>Bound</th><th>Exceeded</th></tr>
                <tr><td>max states</td><td>{{.ExceededMaxStates}}</td></tr>
                <tr><td>max query length</td><td>{{.ExceededQueryLen}}</td></tr>
                <tr><td>max time</td><td>{{.ExceededTime}}</td></tr>
            </table>
        </div>
        {{end}}

        <div class="panel">
            <h2>Learned Model</h2>
            {{if .States}}
            <table>
                <tr>
                    <th>State</th><th>Access</th><th>Output</th>
                    {{range .Alphabet}}<th>{{.}}</th>{{end}}
                </tr>
                {{range .States}}
                <tr class="{{if .Hole}}hole{{end}} {{if .Initial}}initial{{end}}">
                    <td>{{.Name}}</td><td>{{.Access}}</td><td>{{.Output}}</td>
                    {{range .Transitions}}<td>{{if .}}{{.}}{{else}}-{{end}}</td>{{end}}
                </tr>
                {{end}}
            </table>
            {{else}}
            <p>No model was produced.</p>
            {{end}}
            <p style="margin-top: 15px; color: #718096;">Observation table: {{.Table.Red}} red, {{.Table.Blue}} blue, {{.Table.Experiments}} experiments.</p>
        </div>

        <div class="panel">
            <h2>Counterexamples</h2>
            {{if .Counterexamples}}
            <table>
                <tr><th>#</th><th>Sequence</th></tr>
                {{range $i, $ce := .Counterexamples}}<tr><td>{{$i}}</td><td>{{$ce}}</td></tr>{{end}}
            </table>
            <canvas id="counterexampleChart" style="margin-top: 20px;"></canvas>
            {{else}}
            <p>The first hypothesis was accepted.</p>
            {{end}}
        </div>
    </div>

    {{if .Counterexamples}}
    <script>
        const chart = {{json .Chart}};
        new Chart(document.getElementById('counterexampleChart'), {
            type: chart.type,
            data: chart.data,
            options: chart.options
        });
    </script>
    {{end}}
</body>
</html>
`
