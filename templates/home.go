package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"fundspark/pkg/format"
	"fundspark/pkg/views"
)

const parallaxScript = `<script>(function(){` +
	`var els=document.querySelectorAll('[data-speed]');` +
	`function onScroll(){var y=window.scrollY;els.forEach(function(el){el.style.transform='translateY('+(y*parseFloat(el.dataset.speed))+'px)';});}` +
	`window.addEventListener('scroll',onScroll,{passive:true});` +
	`window.addEventListener('pagehide',function(){window.removeEventListener('scroll',onScroll);},{once:true});` +
	`})();</script>`

const counterScript = `<script>(function(){` +
	`var el=document.getElementById('counter-value');if(!window.EventSource||!el)return;` +
	`var es=new EventSource('/api/counter');` +
	`es.addEventListener('counter',function(e){el.textContent=e.data;});` +
	`es.addEventListener('done',function(e){el.textContent=e.data;es.close();});` +
	`es.onerror=function(){es.close();};` +
	`window.addEventListener('pagehide',function(){es.close();},{once:true});` +
	`})();</script>`

// Home renders the marketing hero with the floating category markers and the
// community counter.
func Home(p Page, markers []views.Marker, counter views.Counter) templ.Component {
	return component(func(h *html) {
		h.raw(`<div class="homepage"><main class="hero-wrap">`)
		for _, m := range markers {
			h.raw(`<div class="floating-cat"`)
			h.attr("data-speed", strconv.FormatFloat(m.Speed, 'f', -1, 64))
			h.attr("style", "top: "+m.Top+"; left: "+m.Left+"; transform: "+m.Transform(0)+";")
			h.raw(`><div class="ring small-ring"><img class="category-img"`)
			h.attr("src", m.Icon)
			h.attr("alt", m.Name)
			h.raw(`></div><span class="cat-label">`)
			h.text(m.Name)
			h.raw(`</span></div>`)
		}
		h.raw(`<header class="center-message"><h2 class="eyebrow">#1 crowdfunding platform</h2>`,
			`<h1 class="hero-title">Successful <br> fundraisers <br> start here</h1>`,
			`<a class="cta"`)
		h.attr("href", p.modalHref(views.ModalSignUp))
		h.raw(`>Start a Fundspark</a><div class="counter">Over ₹<span id="counter-value"`)
		h.attr("data-target", strconv.FormatInt(counter.Target, 10))
		h.raw(`>`)
		h.text(format.Number(float64(counter.Value(0))))
		h.raw(`</span> raised by our community!</div></header></main></div>`)
		h.raw(parallaxScript, counterScript)
	})
}
