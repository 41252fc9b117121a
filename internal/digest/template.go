package digest

import "html/template"

var dailyTmpl = template.Must(template.New("daily").Parse(dailyHTML))

const dailyHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1.0">
<title>Portfolio Intelligence</title>
<style>
body{margin:0;padding:0;background:#F0F2F5;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Arial,sans-serif;}
details>summary{list-style:none;}
details>summary::-webkit-details-marker{display:none;}
a{color:#1565C0;}
@media(max-width:600px){
  .wrap{padding:8px!important;}
  h1{font-size:16px!important;}
  h2{font-size:14px!important;}
}
</style>
</head>
<body>
<div class="wrap" style="max-width:680px;margin:0 auto;padding:16px;">

<div style="background:linear-gradient(135deg,#1a1a2e 0%,#16213e 100%);color:white;padding:22px 20px;border-radius:10px;margin-bottom:16px;">
  <div style="display:flex;align-items:center;flex-wrap:wrap;gap:8px;margin-bottom:4px;">
    <h1 style="margin:0;font-size:19px;font-weight:700;">📊 Portfolio Intelligence</h1>
    {{if gt .HighCount 0}}<span style="background:#E53935;color:#fff;padding:3px 10px;border-radius:10px;font-size:11px;font-weight:700;margin-left:8px;">⚠️ {{.HighCount}} urgent</span>{{end}}
  </div>
  <p style="margin:0 0 14px;color:#aaa;font-size:12px;">{{.Date}}</p>
  <div style="display:flex;gap:18px;flex-wrap:wrap;margin-bottom:12px;">
    <span style="font-size:13px;">Total: <strong>{{.Total}}</strong></span>
    <span style="color:#81C784;font-size:13px;">Profit: <strong>{{.InProfit}}</strong></span>
    <span style="color:#EF9A9A;font-size:13px;">Loss: <strong>{{.InLoss}}</strong></span>
  </div>
  <div style="background:rgba(255,255,255,0.08);border-radius:6px;padding:8px 12px;">
    <span style="font-size:11px;color:#90CAF9;">⏱ News window: {{.Window}}</span>
  </div>
</div>

<div style="background:#fff;border-radius:10px;padding:20px;margin-bottom:16px;box-shadow:0 1px 4px rgba(0,0,0,0.07);">
  <h2 style="margin:0 0 4px;font-size:17px;color:#1a1a2e;">📊 Section 1 — Priority Actions</h2>
  <p style="margin:0 0 16px;font-size:12px;color:#999;">AI analysis sorted by urgency and investment size. Indian stocks prioritised.</p>
  {{range .Groups}}
  <h3 style="color:{{.Color}};margin:20px 0 8px;font-size:14px;font-weight:700;padding-bottom:6px;">
    {{.Label}} <span style="color:#aaa;font-weight:400;font-size:12px;">({{len .Cards}})</span>
  </h3>
  {{range .Cards}}
  <div style="border:1px solid {{.Style.Border}};border-left:4px solid {{.Style.Border}};border-radius:8px;background:{{.Style.BG}};padding:14px 16px;margin:8px 0;">
    <div style="display:flex;justify-content:space-between;align-items:flex-start;flex-wrap:wrap;gap:6px;">
      <div>
        <span style="font-size:15px;font-weight:700;">{{.Flag}} {{.Ticker}}</span>
        <span style="color:#555;font-size:12px;margin-left:6px;">{{.Name}}</span>
        <span style="color:#999;font-size:11px;margin-left:6px;">• {{.Sector}}</span>
      </div>
      <div style="display:flex;gap:6px;align-items:center;flex-wrap:wrap;">
        <span style="background:{{.Style.Badge}};color:#fff;padding:2px 8px;border-radius:10px;font-size:10px;font-weight:700;">{{.Priority}}</span>
        <span style="font-weight:700;font-size:14px;color:{{.GainColor}};">{{.GainStr}}</span>
        <span>{{.Icon}}</span>
      </div>
    </div>
    {{if .Invested}}<div style="font-size:11px;color:#888;margin:4px 0;">{{.Invested}}</div>{{end}}
    <p style="margin:10px 0 8px;font-size:13px;color:#333;line-height:1.6;">{{.Summary}}</p>
    <div style="display:flex;gap:16px;font-size:12px;flex-wrap:wrap;">
      <span>Action: <strong>{{.Action}}</strong></span>
      <span style="color:{{.ThesisClr}};">Thesis: <strong>{{.Thesis}}</strong></span>
    </div>
  </div>
  {{end}}
  {{else}}
  <p style="color:#999;font-style:italic;padding:8px 0;">No significant news today.</p>
  {{end}}
</div>

<div style="background:#fff;border-radius:10px;padding:20px;margin-bottom:16px;box-shadow:0 1px 4px rgba(0,0,0,0.07);">
  <h2 style="margin:0 0 4px;font-size:17px;color:#1a1a2e;">📰 Section 2 — News Feed</h2>
  {{if .NewsBlocks}}
  <p style="margin:0 0 16px;font-size:12px;color:#999;">
    {{.TotalArticles}} articles across {{.NewsStocks}} stocks.
    Tap any row to expand. Click a headline to read the full article.
  </p>
  {{range .NewsBlocks}}
  <details style="margin-bottom:10px;border:1px solid {{.Style.Border}};border-radius:8px;overflow:hidden;">
    <summary style="cursor:pointer;padding:11px 14px;background:{{.Style.BG}};border-left:4px solid {{.Style.Border}};list-style:none;display:flex;justify-content:space-between;align-items:center;flex-wrap:wrap;gap:4px;">
      <div>
        <span style="font-weight:700;font-size:13px;">{{.Flag}} {{.Ticker}}</span>
        <span style="color:#666;font-size:12px;margin-left:6px;">{{.Name}}</span>
      </div>
      <div style="display:flex;gap:8px;align-items:center;">
        <span style="color:{{.GainColor}};font-weight:700;font-size:13px;">{{.GainStr}}</span>
        <span style="font-size:11px;color:#888;">{{.Invested}}</span>
        <span style="background:{{.Style.Badge}};color:#fff;font-size:10px;padding:2px 7px;border-radius:8px;">{{len .Articles}} ▾</span>
      </div>
    </summary>
    <div style="padding:4px 14px 10px;background:#fff;">
      {{range .Articles}}
      <div style="padding:8px 0;border-bottom:1px solid #f5f5f5;">
        <span style="font-size:12px;">{{.Tone}}</span>
        <a href="{{.Link}}" style="color:#1565C0;font-size:13px;font-weight:500;text-decoration:none;line-height:1.5;" target="_blank">{{.Title}} ↗</a>
        <div style="margin-top:2px;font-size:11px;color:#aaa;">{{.Source}} &nbsp;•&nbsp; {{.TimeStr}}</div>
      </div>
      {{end}}
    </div>
  </details>
  {{end}}
  {{else}}
  <p style="color:#999;font-style:italic;">No articles found in the last 24 hours.</p>
  {{end}}
</div>

<div style="background:#fff;border-radius:10px;padding:20px;margin-bottom:16px;box-shadow:0 1px 4px rgba(0,0,0,0.07);">
  <h2 style="margin:0 0 4px;font-size:17px;color:#1a1a2e;">📡 Section 3 — Portfolio Pulse</h2>
  <p style="margin:0 0 16px;font-size:12px;color:#999;">Pure math — no AI.</p>

  <h3 style="font-size:13px;color:#555;margin:0 0 4px;font-weight:600;">🏭 Sector Sentiment</h3>
  <div style="margin-bottom:20px;">
    {{range .Sectors}}
    <div style="padding:9px 0;border-bottom:1px solid #f5f5f5;">
      <div style="display:flex;justify-content:space-between;align-items:center;flex-wrap:wrap;gap:4px;">
        <div>
          <span style="font-size:13px;font-weight:600;">{{.Icon}} {{.Name}}</span>
          <span style="font-size:11px;color:#aaa;margin-left:6px;">{{.Total}} stocks</span>
          <div style="margin-top:4px;"><span style="display:inline-block;width:{{.PosW}}px;height:6px;background:#4CAF50;vertical-align:middle;"></span><span style="display:inline-block;width:{{.NeuW}}px;height:6px;background:#BDBDBD;vertical-align:middle;"></span><span style="display:inline-block;width:{{.NegW}}px;height:6px;background:#F44336;vertical-align:middle;"></span></div>
          <div style="font-size:11px;color:#aaa;margin-top:2px;">▲{{.Pos}} &nbsp;▶{{.Neu}} &nbsp;▼{{.Neg}}</div>
        </div>
        <span style="font-size:14px;font-weight:700;color:{{.AvgColor}};">{{.AvgStr}}</span>
      </div>
    </div>
    {{end}}
  </div>

  <h3 style="font-size:13px;color:#555;margin:0 0 8px;font-weight:600;">📈 Top Gainers</h3>
  <div style="margin-bottom:16px;line-height:2;">
    {{range .Gainers}}<span style="display:inline-block;background:{{.BG}};color:{{.Color}};border-radius:12px;padding:4px 10px;font-size:12px;font-weight:600;margin:3px;">{{.Label}}</span>{{end}}
  </div>

  <h3 style="font-size:13px;color:#555;margin:0 0 8px;font-weight:600;">📉 Top Losers</h3>
  <div style="margin-bottom:4px;line-height:2;">
    {{range .Losers}}<span style="display:inline-block;background:{{.BG}};color:{{.Color}};border-radius:12px;padding:4px 10px;font-size:12px;font-weight:600;margin:3px;">{{.Label}}</span>{{end}}
  </div>

  {{if .NoNews}}
  <div style="margin-top:20px;">
    <h3 style="font-size:13px;color:#aaa;margin:0 0 6px;font-weight:600;">🔇 No News Today ({{len .NoNews}} stocks)</h3>
    <div style="line-height:2;">
      {{range .NoNews}}<span style="display:inline-block;background:#F5F5F5;color:#777;border-radius:10px;padding:3px 9px;font-size:12px;margin:2px;">{{.}}</span>{{end}}
    </div>
  </div>
  {{end}}
</div>

<div style="text-align:center;padding:16px;font-size:11px;color:#bbb;">
  Portfolio Intelligence Pipeline &nbsp;•&nbsp; Yahoo Finance RSS &amp; Economic Times RSS &nbsp;•&nbsp; Google Gemini<br>
  <span style="color:#ddd;">⚠️ Personal tool — not financial advice.</span>
</div>

</div>
</body>
</html>`

var weeklyTmpl = template.Must(template.New("weekly").Parse(`<!DOCTYPE html><html><head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1.0">
</head><body style="max-width:680px;margin:0 auto;padding:16px;background:#F0F2F5;font-family:-apple-system,Arial,sans-serif;">
<div style="background:linear-gradient(135deg,#0d3b66,#1565C0);color:#fff;padding:20px;border-radius:10px;margin-bottom:16px;">
  <h1 style="margin:0;font-size:19px;">📅 Weekly Portfolio Review</h1>
  <p style="margin:6px 0 0;color:#90CAF9;font-size:12px;">Week ending {{.Date}}</p>
</div>
<div style="background:#fff;border-radius:10px;padding:20px;line-height:1.8;color:#333;font-size:14px;">
{{.Body}}
</div>
<p style="text-align:center;font-size:11px;color:#aaa;margin-top:12px;">⚠️ Personal tool — not financial advice.</p>
</body></html>`))

var monthlyTmpl = template.Must(template.New("monthly").Parse(`<!DOCTYPE html><html><head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1.0">
</head><body style="max-width:680px;margin:0 auto;padding:16px;background:#F0F2F5;font-family:-apple-system,Arial,sans-serif;">
<div style="background:linear-gradient(135deg,#1b4332,#2D6A4F);color:#fff;padding:20px;border-radius:10px;margin-bottom:16px;">
  <h1 style="margin:0;font-size:19px;">📆 Monthly Portfolio Deep Dive</h1>
  <p style="margin:6px 0 0;color:#95D5B2;font-size:12px;">{{.Date}}</p>
</div>
<div style="background:#fff;border-radius:10px;padding:20px;line-height:1.8;color:#333;font-size:14px;">
{{.Body}}
</div>
<p style="text-align:center;font-size:11px;color:#aaa;margin-top:12px;">⚠️ Personal tool — not financial advice.</p>
</body></html>`))
