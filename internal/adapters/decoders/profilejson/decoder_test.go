package profilejson

import "testing"

func TestDecodeFullDocument(t *testing.T) {
	payload := `{
		"version": 5,
		"profilingStartTime": 1000,
		"profilingEndTime": 61000,
		"dataForRoots": [{
			"displayName": "App",
			"commitData": [
				{"timestamp": 1200, "duration": 22.5, "effectDuration": 3, "priority": "Normal",
				 "updaters": [{"displayName": "FeedScreen"}, {}]},
				{"duration": 4.1, "passiveEffectDuration": null}
			]
		}]
	}`
	doc, ok := Decode([]byte(payload))
	if !ok {
		t.Fatal("decode failed on valid document")
	}
	if doc.Version != 5 || doc.ProfilingWindowMs() != 60000 {
		t.Fatalf("unexpected header: %+v", doc)
	}
	if len(doc.DataForRoots) != 1 {
		t.Fatalf("want 1 root, got %d", len(doc.DataForRoots))
	}
	commits := doc.DataForRoots[0].CommitData
	if len(commits) != 2 {
		t.Fatalf("want 2 commits, got %d", len(commits))
	}
	if commits[0].Duration != 22.5 || commits[0].EffectMs() != 3 {
		t.Fatalf("unexpected commit 0: %+v", commits[0])
	}
	if commits[0].Updaters[0].DisplayName != "FeedScreen" || commits[0].Updaters[1].Name() != "(anonymous)" {
		t.Fatalf("unexpected updaters: %+v", commits[0].Updaters)
	}
	if commits[1].PassiveEffectDuration != nil {
		t.Fatalf("null passive duration must stay unknown, got %v", *commits[1].PassiveEffectDuration)
	}
}

func TestDecodeNotJSON(t *testing.T) {
	if _, ok := Decode([]byte("not json at all")); ok {
		t.Fatal("should not decode garbage")
	}
}

func TestDecodeMissingSections(t *testing.T) {
	doc, ok := Decode([]byte(`{}`))
	if !ok || len(doc.DataForRoots) != 0 {
		t.Fatalf("empty object must decode to empty doc: ok=%v doc=%+v", ok, doc)
	}

	doc, ok = Decode([]byte(`{"dataForRoots": "oops"}`))
	if !ok || len(doc.DataForRoots) != 0 {
		t.Fatalf("non-array roots must degrade to none: ok=%v doc=%+v", ok, doc)
	}

	doc, ok = Decode([]byte(`{"dataForRoots": [{"commitData": 42}]}`))
	if !ok || len(doc.DataForRoots) != 1 || doc.DataForRoots[0].CommitData != nil {
		t.Fatalf("non-array commitData must degrade to none: ok=%v doc=%+v", ok, doc)
	}
}

func TestDecodeVersionSkewExtraFields(t *testing.T) {
	doc, ok := Decode([]byte(`{"dataForRoots":[{"commitData":[{"duration":5,"fiberActualDurations":{"1":2}}]}],"futureField":true}`))
	if !ok || doc.DataForRoots[0].CommitData[0].Duration != 5 {
		t.Fatalf("unknown fields must be ignored: ok=%v doc=%+v", ok, doc)
	}
}
