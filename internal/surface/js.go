package surface

import (
	"strconv"
	"strings"
)

// Stage markers. base.css styles them; the compositor never emits them.
const (
	stageAttr   = "data-cv2pdf-stage"
	contentAttr = "data-cv2pdf-stage-content"
)

// The snippets are function expressions: rod evaluates them with arguments,
// chromedp through invoke.

// mountJS moves the body's children into a fixed-width, clipped stage.
const mountJS = `(width) => {
  if (document.querySelector('[` + stageAttr + `]')) return true;
  const stage = document.createElement('div');
  stage.setAttribute('` + stageAttr + `', '');
  stage.style.cssText = 'position:absolute;top:0;left:0;overflow:hidden;background:#fff;width:' + width + 'px';
  const content = document.createElement('div');
  content.setAttribute('` + contentAttr + `', '');
  content.style.width = width + 'px';
  while (document.body.firstChild) content.appendChild(document.body.firstChild);
  stage.appendChild(content);
  document.body.style.margin = '0';
  document.body.appendChild(stage);
  return true;
}`

const heightJS = `() => {
  const c = document.querySelector('[` + contentAttr + `]');
  return c ? c.scrollHeight : -1;
}`

const translateJS = `(offset) => {
  const c = document.querySelector('[` + contentAttr + `]');
  if (!c) return false;
  c.style.transform = 'translateY(-' + offset + 'px)';
  return true;
}`

const settleJS = `() => (document.fonts ? document.fonts.ready : Promise.resolve())
  .then(() => new Promise((resolve) =>
    requestAnimationFrame(() => requestAnimationFrame(() => resolve(true)))))`

const detachJS = `() => {
  const s = document.querySelector('[` + stageAttr + `]');
  if (s) s.remove();
  return true;
}`

// invoke turns a function expression and numeric arguments into a call
// expression for engines that evaluate plain expressions.
func invoke(fn string, args ...float64) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = strconv.FormatFloat(a, 'f', -1, 64)
	}
	return "(" + fn + ")(" + strings.Join(parts, ", ") + ")"
}
