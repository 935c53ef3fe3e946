// File: internal/presenter/script.go
package presenter

// bootstrapScript runs on every new document and exposes the completion
// callable to the hosted page:
//
//	window.OnboardKit.complete(result)
//
// Called with an object, the object is the payload. Called with nothing (or
// null), the payload is auto-extracted: the current values of all visible
// named form fields plus any element tagged data-onboard-key. Unchecked
// checkboxes and unselected radios are omitted, matching form semantics.
const bootstrapScript = `(() => {
  'use strict';
  if (window.OnboardKit) { return; }

  const isVisible = (el) =>
    !!(el.offsetWidth || el.offsetHeight || el.getClientRects().length);

  const collect = () => {
    const out = {};
    document.querySelectorAll('input[name], select[name], textarea[name]').forEach((el) => {
      if (!isVisible(el)) { return; }
      if ((el.type === 'checkbox' || el.type === 'radio') && !el.checked) { return; }
      out[el.name] = el.value;
    });
    document.querySelectorAll('[data-onboard-key]').forEach((el) => {
      const key = el.getAttribute('data-onboard-key');
      if (!key) { return; }
      out[key] = ('value' in el) ? el.value : (el.textContent || '').trim();
    });
    return out;
  };

  const deliver = (payload) => {
    try {
      window.` + BridgeBinding + `(JSON.stringify(payload));
    } catch (e) {
      // Binding not registered; nothing we can do from the page side.
    }
  };

  window.OnboardKit = Object.freeze({
    complete: (result) => {
      deliver(result === undefined || result === null ? collect() : result);
    },
  });
})();`
