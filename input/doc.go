// Package input reads gene-range documents.
//
// A document declares the species order and lists gene ranges with the
// sampled transcripts, exon candidates and orthology clusters of every
// species:
//
//	species: [hs, mm]
//	ranges:
//	  - id: chr1:1-1000
//	    species:
//	      - name: hs
//	        start: 1
//	        end: 1000
//	        transcripts:
//	          - states:
//	              - {kind: exon, start: 10, end: 20, score: 1}
//	        candidates:
//	          - {start: 100, end: 200, score: 3}
//	      - name: mm
//	        missing: true
//	    clusters:
//	      - plausibility: 4
//	        omega: 0.3
//	        members:
//	          - {species: hs, start: 100, end: 200}
//
// Species flagged missing or retrieval_failed, and species not listed in a
// range, are absent from that range.
package input
