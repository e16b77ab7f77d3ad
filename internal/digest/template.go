package digest

const digestTemplate = `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; border-radius: 10px; margin-bottom: 30px; }
        .header h1 { margin: 0; font-size: 24px; }
        .header p { margin: 10px 0 0 0; opacity: 0.9; }
        .deal-card { background: #f8f9fa; border-radius: 10px; padding: 25px; margin-bottom: 25px; border-left: 4px solid #667eea; }
        .deal-header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 15px; }
        .deal-name { font-size: 18px; font-weight: 600; color: #333; }
        .deal-stage { background: #667eea; color: white; padding: 4px 12px; border-radius: 20px; font-size: 12px; }
        .deal-meta { color: #666; font-size: 14px; margin-bottom: 15px; }
        .email-preview { background: white; border-radius: 8px; padding: 20px; margin-top: 15px; }
        .email-subject { font-weight: 600; color: #333; margin-bottom: 10px; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .email-body { white-space: pre-wrap; color: #444; }
        .talking-points { margin-top: 15px; padding-top: 15px; border-top: 1px dashed #ddd; }
        .talking-points h4 { margin: 0 0 10px 0; color: #666; font-size: 13px; text-transform: uppercase; }
        .talking-points ul { margin: 0; padding-left: 20px; }
        .talking-points li { color: #555; margin-bottom: 5px; }
        .research-summary { background: #e8f4f8; border-radius: 8px; padding: 15px; margin: 15px 0; border-left: 3px solid #17a2b8; }
        .research-summary h4 { margin: 0 0 10px 0; color: #17a2b8; font-size: 13px; text-transform: uppercase; }
        .research-item { font-size: 13px; color: #555; margin-bottom: 8px; line-height: 1.5; }
        .research-item strong { color: #333; }
        .flags { background: #fff3cd; border-radius: 8px; padding: 15px; margin: 15px 0; border-left: 3px solid #ffc107; }
        .flags h4 { margin: 0 0 10px 0; color: #856404; font-size: 13px; text-transform: uppercase; }
        .flags ul { margin: 0; padding-left: 20px; }
        .flags li { color: #856404; margin-bottom: 5px; font-size: 13px; }
        .contact-info { font-size: 13px; color: #888; }
        .footer { text-align: center; color: #999; font-size: 12px; margin-top: 40px; padding-top: 20px; border-top: 1px solid #eee; }
        .no-followups { text-align: center; padding: 40px; color: #666; }
        .stats { display: flex; gap: 20px; margin-top: 15px; }
        .stat { background: rgba(255,255,255,0.2); padding: 10px 15px; border-radius: 8px; }
        .stat-value { font-size: 24px; font-weight: bold; }
        .stat-label { font-size: 12px; opacity: 0.9; }
    </style>
</head>
<body>
    <div class="header">
        <h1>📧 Daily Follow-up Digest</h1>
        <p>Generated on {{.Date}}</p>
        <div class="stats">
            <div class="stat">
                <div class="stat-value">{{.Count}}</div>
                <div class="stat-label">Deals Need Follow-up</div>
            </div>
        </div>
    </div>
{{if not .Cards}}
    <div class="no-followups">
        <h2>🎉 All caught up!</h2>
        <p>No deals require follow-up today. All active deals have been contacted within the last {{.ThresholdDays}} days.</p>
    </div>
{{else}}
{{range .Cards}}
    <div class="deal-card">
        <div class="deal-header">
            <span class="deal-name">{{.DealName}}</span>
            <span class="deal-stage">{{.Stage}}</span>
        </div>
        <div class="deal-meta">
            <strong>{{.ContactName}}</strong> ({{.ContactEmail}})<br>
            {{.CompanyName}} • Last contact: {{.DaysSince}} days ago
        </div>
{{with .Research}}
        <div class="research-summary">
            <h4>🔍 Research Summary</h4>
            <div class="research-item"><strong>Situation:</strong> {{.Situation}}</div>
            <div class="research-item"><strong>Problems/Blockers:</strong> {{.Problems}}</div>
            {{if .Call}}<div class="research-item"><strong>📞 Call Insights (Fireflies):</strong> {{.Call}}</div>{{end}}
            {{if .Internal}}<div class="research-item"><strong>💬 Internal Insights (Slack):</strong> {{.Internal}}</div>{{end}}
            {{if .Web}}<div class="research-item"><strong>🌐 Web Intelligence:</strong> {{.Web}}</div>{{end}}
            <div class="research-item"><strong>Applicable Capabilities:</strong> {{.Capabilities}}</div>
            <div class="research-item"><strong>Similar Insights:</strong> {{.Similar}}</div>
        </div>
{{end}}
{{if .Flags}}
        <div class="flags">
            <h4>⚠️ Flags & Recommendations</h4>
            <ul>{{range .Flags}}<li>{{.}}</li>{{end}}</ul>
        </div>
{{end}}
        <div class="email-preview">
            <div class="email-subject">📝 Subject: {{.Subject}}</div>
            <div class="email-body">{{.Body}}</div>
{{if .TalkingPoints}}
            <div class="talking-points">
                <h4>💡 Talking Points (if they respond)</h4>
                <ul>{{range .TalkingPoints}}<li>{{.}}</li>{{end}}</ul>
            </div>
{{end}}
        </div>
    </div>
{{end}}
{{end}}
    <div class="footer">
        <p>This digest was automatically generated by your HubSpot Follow-up Agent.<br>
        Review each email before sending and personalize as needed.</p>
    </div>
</body>
</html>
`
