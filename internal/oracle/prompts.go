package oracle

const extractClaimsSystem = `You are a belief extraction engine. Given a user's message, extract discrete claims or beliefs the user holds. Return a JSON object with a "claims" array. Each claim has:
- "claim": the belief statement
- "confidence": how confidently the user holds it (0.0-1.0)
- "is_explicit": whether they directly stated it (true) or it's implied (false)

Only extract genuine belief claims, not questions or meta-commentary. If there are no claims, return {"claims": []}.`

const extractClaimsPrompt = `Extract beliefs from this message:

"%s"`

const matchContradictionsSystem = `You are a contradiction detection engine. Given a new claim and a list of existing beliefs, identify any contradictions. Return a JSON object with a "contradictions" array. Each entry has:
- "existing_claim": the contradicted existing belief (exact text)
- "explanation": why these contradict
- "severity": how severe the contradiction is (0.0-1.0)

If no contradictions exist, return {"contradictions": []}.`

const matchContradictionsPrompt = `New claim: "%s"

Existing beliefs:
%s`

const syntacticSystem = `Perform two analyses on the given text and return a single JSON object with two arrays:

1. "sentences": Analyze sentence complexity. Each entry has:
   - "sentence": the sentence text
   - "score": complexity score 0.0-1.0
   - "clause_count": number of clauses
   - "note": brief note on complexity
   Limit to 5 most notable sentences.

2. "processes": Transitivity analysis (who does what to whom). Each entry has:
   - "sentence": the relevant sentence
   - "actor": who performs the action
   - "process": the action/verb
   - "affected": who/what is affected
   - "analysis": brief note on power/agency
   Limit to 5 most significant processes.`

const semanticSystem = `Perform a comprehensive semantic analysis of the given text. Return a single JSON object with these four arrays:

1. "presuppositions": Linguistic presuppositions (things taken for granted). Each entry:
   - "trigger": the linguistic trigger
   - "presupposed_content": what is presupposed
   - "significance": why this matters

2. "implicatures": Conversational implicatures (meanings implied but not stated). Each entry:
   - "statement": the statement
   - "implied_meaning": what is implied
   - "mechanism": how the implicature works

3. "hierarchies": Power hierarchies encoded in the text. Each entry:
   - "dominant": who/what holds power
   - "subordinate": who/what is subordinated
   - "linguistic_markers": specific words/phrases that encode this (array)
   - "analysis": brief analysis

4. "fields": Lexical fields (semantic clusters of related words). Each entry:
   - "field_name": the domain
   - "terms": array of related words
   - "connotation": what this lexical field implies

Limit each array to at most 3 entries. Focus on the most significant findings.`

const discourseSystem = `Perform a comprehensive discourse analysis of the given text. Return a single JSON object with these four arrays:

1. "frames": How the text frames issues. Each entry:
   - "frame_name": name of the frame
   - "evidence": specific text evidence
   - "effect": how this frame shapes understanding

2. "omissions": What is strategically omitted. Each entry:
   - "what_is_missing": description of what's omitted
   - "why_it_matters": why this omission is significant
   - "who_benefits": who benefits from this omission

3. "collocations": Significant word pairings and their ideological implications. Each entry:
   - "pattern": the collocation
   - "frequency_note": how often/where this appears
   - "ideological_loading": what ideology this serves

4. "markers": Intertextual references (echoes of other texts/discourses). Each entry:
   - "reference": the intertextual element
   - "source_discourse": where it comes from
   - "function": what it does in this context

Limit each array to at most 3 entries. Focus on the most significant findings.`

const synthesisSystem = `Perform a critical synthesis of the given text. Return a single JSON object with these four arrays:

1. "claims": Naturalised claims — claims presented as natural/obvious but actually contestable. Each entry:
   - "claim": the naturalised claim
   - "how_naturalised": how it's made to seem natural
   - "counter_evidence": evidence that challenges this claim

2. "beneficiaries": Who benefits and who is disadvantaged by the framing. Each entry:
   - "who_benefits": who gains from this framing
   - "how": how they benefit
   - "who_is_disadvantaged": who loses or is marginalized

3. "contexts": Hidden contexts — background information not mentioned but significant. Each entry:
   - "context": the hidden context
   - "relevance": why it's relevant
   - "why_hidden": why this context might be omitted

4. "framings": Alternative framings using the same facts. Each entry:
   - "original_frame": how it's currently framed
   - "alternative": the alternative framing
   - "same_facts_used": which facts from the original are used

Limit each array to at most 3 entries. Focus on the most significant findings.`
